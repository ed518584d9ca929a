package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck/internal/api/middleware"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, rec.Body.String())
}

func TestRegister_Validation(t *testing.T) {
	// Requests rejected before the service is touched, so no service is wired.
	h := NewAuthHandler(nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{not json`},
		{"missing username", `{"email":"a@x.com"}`},
		{"missing email", `{"username":"u1"}`},
		{"bad email", `{"username":"u1","email":"not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Register(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	h := NewAuthHandler(nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{`},
		{"missing email", `{}`},
		{"bad email", `{"email":"not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Login(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMe(t *testing.T) {
	h := NewAuthHandler(nil)

	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		rec := httptest.NewRecorder()

		h.Me(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated user", func(t *testing.T) {
		user := &domain.User{ID: uuid.New(), Username: "u1", Email: "a@x.com", IsActive: true}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req = req.WithContext(middleware.WithUser(req.Context(), user))
		rec := httptest.NewRecorder()

		h.Me(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "a@x.com")
		// The API key never leaves through this endpoint.
		assert.NotContains(t, rec.Body.String(), "api_key")
	})
}

func TestListQuery(t *testing.T) {
	request := func(rawQuery string) *http.Request {
		return &http.Request{URL: &url.URL{Path: "/api/v1/prompts", RawQuery: rawQuery}}
	}

	t.Run("empty query", func(t *testing.T) {
		query, err := listQuery(request(""))
		require.NoError(t, err)
		assert.Empty(t, query.Tags)
		assert.Empty(t, query.Search)
		assert.Empty(t, query.Category)
		assert.Nil(t, query.Limit)
	})

	t.Run("tags from repeats and commas", func(t *testing.T) {
		query, err := listQuery(request("tags=a,b&tags=c&tags=%20%20&search=hello&category=db"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, query.Tags)
		assert.Equal(t, "hello", query.Search)
		assert.Equal(t, "db", query.Category)
	})

	t.Run("numeric limit", func(t *testing.T) {
		query, err := listQuery(request("limit=25"))
		require.NoError(t, err)
		require.NotNil(t, query.Limit)
		assert.Equal(t, 25, *query.Limit)
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		_, err := listQuery(request("limit=lots"))
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
