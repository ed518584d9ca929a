package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/promptdeck/promptdeck/internal/domain"
)

// PromptRepository handles prompt data access. Every read is scoped to the
// owning user; there is no query path that crosses owners.
type PromptRepository struct {
	db *DB
}

// NewPromptRepository creates a new prompt repository.
func NewPromptRepository(db *DB) *PromptRepository {
	return &PromptRepository{db: db}
}

const promptColumns = `id, user_id, title, content, description, category, tags,
		variables, is_public, usage_count, version, created_at, updated_at`

// Create inserts a new prompt as a single atomic statement.
func (r *PromptRepository) Create(ctx context.Context, prompt *domain.Prompt) error {
	variables, err := json.Marshal(prompt.Variables)
	if err != nil {
		return fmt.Errorf("failed to marshal variables: %w", err)
	}

	query := `
		INSERT INTO prompts (id, user_id, title, content, description, category,
			tags, variables, is_public, usage_count, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		prompt.ID,
		prompt.UserID,
		prompt.Title,
		prompt.Content,
		nullable(prompt.Description),
		nullable(prompt.Category),
		prompt.Tags,
		variables,
		prompt.IsPublic,
		prompt.UsageCount,
		prompt.Version,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}

	return nil
}

// GetForOwner retrieves a prompt constrained by both id and owner. A wrong id
// and a wrong owner are indistinguishable: both return nil.
func (r *PromptRepository) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Prompt, error) {
	query := `
		SELECT ` + promptColumns + `
		FROM prompts
		WHERE id = $1 AND user_id = $2
	`

	row := r.db.Pool.QueryRow(ctx, query, id, ownerID)
	prompt, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}

	return prompt, nil
}

// ListForOwner returns the owner's prompts matching the filter, most-used
// first, as one statement. Tag matching is array overlap (&&), search is a
// case-insensitive substring match on title or content.
func (r *PromptRepository) ListForOwner(ctx context.Context, filter domain.PromptFilter) ([]domain.Prompt, error) {
	query := `
		SELECT ` + promptColumns + `
		FROM prompts
		WHERE user_id = $1`
	args := []any{filter.OwnerID}

	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		query += fmt.Sprintf(" AND tags && $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", len(args), len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY usage_count DESC LIMIT $%d", len(args))

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []domain.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, *prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}

	return prompts, nil
}

func scanPrompt(row pgx.Row) (*domain.Prompt, error) {
	var prompt domain.Prompt
	var description, category *string
	var variablesJSON []byte

	err := row.Scan(
		&prompt.ID,
		&prompt.UserID,
		&prompt.Title,
		&prompt.Content,
		&description,
		&category,
		&prompt.Tags,
		&variablesJSON,
		&prompt.IsPublic,
		&prompt.UsageCount,
		&prompt.Version,
		&prompt.CreatedAt,
		&prompt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		prompt.Description = *description
	}
	if category != nil {
		prompt.Category = *category
	}
	if prompt.Tags == nil {
		prompt.Tags = []string{}
	}
	prompt.Variables = []string{}
	if len(variablesJSON) > 0 {
		if err := json.Unmarshal(variablesJSON, &prompt.Variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	return &prompt, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
