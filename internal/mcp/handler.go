package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck/internal/api/middleware"
	"github.com/promptdeck/promptdeck/internal/api/response"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// PromptEngine is the query engine the tools are dispatched to. The handler
// assumes the caller's identity is already resolved by the API-key gate.
type PromptEngine interface {
	ListAvailable(ctx context.Context, ownerID uuid.UUID, query domain.PromptQuery) (*domain.PromptListing, error)
	GetContent(ctx context.Context, ownerID uuid.UUID, promptID string) (*domain.PromptDetail, error)
}

// Handler serves the tool-call endpoints.
type Handler struct {
	prompts PromptEngine
}

// NewHandler creates a new tool-call handler.
func NewHandler(prompts PromptEngine) *Handler {
	return &Handler{prompts: prompts}
}

// ListTools returns the tool descriptors. The route is authenticated so the
// tool inventory is not exposed to anonymous callers.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, resultResponse(nil, map[string]any{"tools": Tools()}))
}

// CallTool dispatches a tool invocation. Every failure is a structured error
// object so one malformed call cannot take down a batch sharing the
// connection.
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, errorResponse(nil, CodeInvalidParams, "invalid request body"))
		return
	}

	if req.Method != "tools/call" {
		writeResponse(w, errorResponse(req.ID, CodeMethodNotFound, "unknown method"))
		return
	}
	if req.Params == nil || req.Params.Name == "" {
		writeResponse(w, errorResponse(req.ID, CodeInvalidParams, "missing 'name' in params"))
		return
	}

	writeResponse(w, h.dispatch(r.Context(), user, req))
}

func (h *Handler) dispatch(ctx context.Context, user *domain.User, req Request) Response {
	switch req.Params.Name {
	case ToolListPrompts:
		return h.listPrompts(ctx, user, req)
	case ToolGetPromptContent:
		return h.getPromptContent(ctx, user, req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("unknown tool: %s", req.Params.Name))
	}
}

func (h *Handler) listPrompts(ctx context.Context, user *domain.User, req Request) Response {
	var args domain.PromptQuery
	if err := decodeArguments(req.Params.Arguments, &args); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, err.Error())
	}

	listing, err := h.prompts.ListAvailable(ctx, user.ID, args)
	if err != nil {
		return domainError(req.ID, err)
	}

	return resultResponse(req.ID, map[string]any{
		"content": textContent(listing.Text),
		"prompts": listing.Prompts,
		"total":   listing.Total,
	})
}

func (h *Handler) getPromptContent(ctx context.Context, user *domain.User, req Request) Response {
	var args struct {
		PromptID string `json:"prompt_id" validate:"required"`
	}
	if err := decodeArguments(req.Params.Arguments, &args); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, err.Error())
	}

	detail, err := h.prompts.GetContent(ctx, user.ID, args.PromptID)
	if err != nil {
		return domainError(req.ID, err)
	}

	return resultResponse(req.ID, map[string]any{
		"content": textContent(detail.Text),
		"prompt":  detail,
	})
}

func decodeArguments(raw json.RawMessage, into any) error {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, into); err != nil {
			return fmt.Errorf("invalid arguments: %v", err)
		}
	}
	if err := validate.Struct(into); err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	return nil
}

// domainError maps a query engine failure to a structured error whose code
// mirrors the REST status for the same condition. Unexpected failures are
// logged and reported generically.
func domainError(id *string, err error) Response {
	status := response.StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("tool call failed")
		return errorResponse(id, CodeInternal, "internal server error")
	}
	return errorResponse(id, status, err.Error())
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
