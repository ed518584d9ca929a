package mcp

// Tool names exposed by the dispatch surface.
const (
	ToolListPrompts      = "list_available_prompts"
	ToolGetPromptContent = "get_prompt_content"
)

// Tool describes a callable tool and its input schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Tools returns the tool descriptors with their declared input schemas.
func Tools() []Tool {
	return []Tool{
		{
			Name:        ToolListPrompts,
			Description: "List the prompts available to the caller",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"search": map[string]any{
						"type": "string",
					},
					"category": map[string]any{
						"type":      "string",
						"maxLength": 100,
					},
					"limit": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 200,
						"default": 50,
					},
				},
			},
		},
		{
			Name:        ToolGetPromptContent,
			Description: "Get the full content of a prompt by ID",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prompt_id": map[string]any{
						"type":        "string",
						"description": "Prompt ID (UUID string)",
					},
				},
				"required": []string{"prompt_id"},
			},
		},
	}
}
