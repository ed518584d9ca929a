package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Prompt represents a stored prompt template owned by exactly one user.
type Prompt struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	Variables   []string  `json:"variables"`
	IsPublic    bool      `json:"is_public"`
	UsageCount  int       `json:"usage_count"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PromptCreate represents prompt creation data. Variables are the
// author-declared placeholder names; they may diverge from what the content
// actually references.
type PromptCreate struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Content     string   `json:"content" validate:"required"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Variables   []string `json:"variables"`
}

// PromptQuery carries the optional list filters. All filters are AND'd with
// the mandatory owner filter. A nil Limit means the default of 50.
type PromptQuery struct {
	Tags     []string `json:"tags,omitempty"`
	Search   string   `json:"search,omitempty"`
	Category string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Limit    *int     `json:"limit,omitempty"`
}

// PromptFilter is the resolved repository-level filter: owner scoping plus
// the normalized query filters.
type PromptFilter struct {
	OwnerID  uuid.UUID
	Tags     []string
	Search   string
	Category string
	Limit    int
}

// PromptSummary is the list-view projection of a prompt.
type PromptSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UsageCount  int       `json:"usage_count"`
}

// PromptListing is the result of a filtered list query. Total equals the
// number of returned prompts; there is no separate pre-limit count.
type PromptListing struct {
	Prompts []PromptSummary `json:"prompts"`
	Total   int             `json:"total"`
	Text    string          `json:"-"`
}

// PromptMetadata is the metadata block returned with full prompt content.
type PromptMetadata struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UsageCount int       `json:"usage_count"`
}

// PromptDetail is the full-content view of a single owned prompt.
// Variables holds the author-declared names, ExtractedVariables the
// deduplicated, sorted set referenced by the content; the two are never merged.
type PromptDetail struct {
	ID                 uuid.UUID      `json:"id"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	Description        string         `json:"description,omitempty"`
	Tags               []string       `json:"tags"`
	Category           string         `json:"category,omitempty"`
	Variables          []string       `json:"variables"`
	ExtractedVariables []string       `json:"extracted_variables"`
	Version            int            `json:"version"`
	Metadata           PromptMetadata `json:"metadata"`
	Text               string         `json:"-"`
}

// PromptRepository defines prompt persistence operations. Every read is
// constrained to the owning user.
type PromptRepository interface {
	Create(ctx context.Context, prompt *Prompt) error
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Prompt, error)
	ListForOwner(ctx context.Context, filter PromptFilter) ([]Prompt, error)
}
