package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck/internal/domain"
)

const (
	defaultListLimit = 50
	minListLimit     = 1
	maxListLimit     = 200
)

// Placeholder pattern for template variables: {{identifier}}.
var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// PromptService is the prompt query engine. It assumes identity is already
// resolved; every operation takes the owner as a mandatory filter.
type PromptService struct {
	prompts domain.PromptRepository
}

// NewPromptService creates a new prompt service.
func NewPromptService(prompts domain.PromptRepository) *PromptService {
	return &PromptService{prompts: prompts}
}

// Create stores a new prompt owned by ownerID.
func (s *PromptService) Create(ctx context.Context, ownerID uuid.UUID, input domain.PromptCreate) (*domain.Prompt, error) {
	now := time.Now()
	prompt := &domain.Prompt{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       input.Title,
		Content:     input.Content,
		Description: input.Description,
		Category:    input.Category,
		Tags:        input.Tags,
		Variables:   input.Variables,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if prompt.Tags == nil {
		prompt.Tags = []string{}
	}
	if prompt.Variables == nil {
		prompt.Variables = []string{}
	}

	if err := s.prompts.Create(ctx, prompt); err != nil {
		return nil, err
	}

	return prompt, nil
}

// ListAvailable returns the owner's prompts matching the query, most-used
// first. Optional filters are conjunctive: tag overlap, category equality and
// a case-insensitive substring search over title or content.
func (s *PromptService) ListAvailable(ctx context.Context, ownerID uuid.UUID, query domain.PromptQuery) (*domain.PromptListing, error) {
	filter := domain.PromptFilter{
		OwnerID:  ownerID,
		Tags:     query.Tags,
		Search:   query.Search,
		Category: query.Category,
		Limit:    normalizeLimit(query.Limit),
	}

	prompts, err := s.prompts.ListForOwner(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.PromptSummary, 0, len(prompts))
	lines := make([]string, 0, len(prompts))
	for _, p := range prompts {
		summaries = append(summaries, domain.PromptSummary{
			ID:          p.ID,
			Title:       p.Title,
			Tags:        p.Tags,
			Description: p.Description,
			Category:    p.Category,
			CreatedAt:   p.CreatedAt,
			UsageCount:  p.UsageCount,
		})
		lines = append(lines, fmt.Sprintf("• %s (ID: %s)", p.Title, p.ID))
	}

	text := fmt.Sprintf("Found %d matching prompts:\n%s", len(summaries), strings.Join(lines, "\n"))

	return &domain.PromptListing{
		Prompts: summaries,
		Total:   len(summaries),
		Text:    text,
	}, nil
}

// GetContent returns the full content of one owned prompt. A prompt that
// exists under another owner is reported exactly like a nonexistent one.
func (s *PromptService) GetContent(ctx context.Context, ownerID uuid.UUID, promptID string) (*domain.PromptDetail, error) {
	id, err := uuid.Parse(promptID)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt_id: %w", domain.ErrInvalidArgument)
	}

	prompt, err := s.prompts.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, fmt.Errorf("prompt not found: %w", domain.ErrNotFound)
	}

	return &domain.PromptDetail{
		ID:                 prompt.ID,
		Title:              prompt.Title,
		Content:            prompt.Content,
		Description:        prompt.Description,
		Tags:               prompt.Tags,
		Category:           prompt.Category,
		Variables:          prompt.Variables,
		ExtractedVariables: ExtractVariables(prompt.Content),
		Version:            prompt.Version,
		Metadata: domain.PromptMetadata{
			CreatedAt:  prompt.CreatedAt,
			UpdatedAt:  prompt.UpdatedAt,
			UsageCount: prompt.UsageCount,
		},
		Text: fmt.Sprintf("Prompt: %s\n\n%s", prompt.Title, prompt.Content),
	}, nil
}

// ExtractVariables returns the distinct {{identifier}} placeholder names in
// content, deduplicated and sorted lexicographically.
func ExtractVariables(content string) []string {
	matches := variablePattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	sort.Strings(names)
	return names
}

// normalizeLimit clamps an explicit limit into [1,200]; an absent limit means
// the default of 50.
func normalizeLimit(limit *int) int {
	if limit == nil {
		return defaultListLimit
	}
	if *limit < minListLimit {
		return minListLimit
	}
	if *limit > maxListLimit {
		return maxListLimit
	}
	return *limit
}
