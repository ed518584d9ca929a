package mcp

import "encoding/json"

// JSON-RPC style envelope for the tool-call surface.

// Error codes. Domain failures reuse their HTTP-equivalent status as the
// error code, matching what REST callers see for the same condition.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = 500
)

// Request is an inbound tool-call request.
type Request struct {
	JSONRPC string  `json:"jsonrpc"`
	ID      *string `json:"id,omitempty"`
	Method  string  `json:"method"`
	Params  *Params `json:"params,omitempty"`
}

// Params names the tool to invoke and carries its raw arguments.
type Params struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response is the structured result envelope. Exactly one of Result and
// Error is set; failures never surface as transport-level errors.
type Response struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      *string      `json:"id,omitempty"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ErrorObject is a structured tool-call error.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TextContent is the human-readable block included in tool results.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textContent(text string) []TextContent {
	return []TextContent{{Type: "text", Text: text}}
}

func resultResponse(id *string, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id *string, code int, message string) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &ErrorObject{Code: code, Message: message},
	}
}
