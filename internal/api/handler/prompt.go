package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/promptdeck/promptdeck/internal/api/middleware"
	"github.com/promptdeck/promptdeck/internal/api/response"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/promptdeck/promptdeck/internal/service"
)

// PromptHandler handles prompt endpoints.
type PromptHandler struct {
	promptService *service.PromptService
}

// NewPromptHandler creates a new prompt handler.
func NewPromptHandler(promptService *service.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// Create handles prompt creation, owned by the authenticated caller.
func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.PromptCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	prompt, err := h.promptService.Create(r.Context(), user.ID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, prompt)
}

// List returns the caller's prompts, filtered by the optional tags, search,
// category and limit query parameters.
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	query, err := listQuery(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	listing, err := h.promptService.ListAvailable(r.Context(), user.ID, query)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, listing)
}

// Get returns one of the caller's prompts with its full content.
func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	detail, err := h.promptService.GetContent(r.Context(), user.ID, chi.URLParam(r, "promptID"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, detail)
}

func listQuery(r *http.Request) (domain.PromptQuery, error) {
	q := r.URL.Query()

	query := domain.PromptQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}

	for _, raw := range q["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				query.Tags = append(query.Tags, tag)
			}
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PromptQuery{}, fmt.Errorf("invalid limit %q: %w", raw, domain.ErrInvalidArgument)
		}
		query.Limit = &limit
	}

	return query, nil
}
