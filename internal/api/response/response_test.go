package response_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promptdeck/promptdeck/internal/api/response"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", domain.ErrInvalidArgument, http.StatusBadRequest},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"wrapped", fmt.Errorf("prompt not found: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unknown", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, response.StatusOf(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("domain error keeps its message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		response.FromError(rec, fmt.Errorf("prompt not found: %w", domain.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"prompt not found: not found"}`, rec.Body.String())
	})

	t.Run("unexpected error is hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		response.FromError(rec, fmt.Errorf("dial tcp: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "dial tcp")
	})
}
