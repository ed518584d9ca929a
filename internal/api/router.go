package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/promptdeck/promptdeck/internal/api/handler"
	custommw "github.com/promptdeck/promptdeck/internal/api/middleware"
	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/mcp"
	"github.com/promptdeck/promptdeck/internal/repository/postgres"
	"github.com/promptdeck/promptdeck/internal/repository/redis"
	"github.com/promptdeck/promptdeck/internal/security"
	"github.com/promptdeck/promptdeck/internal/service"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommw.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	promptRepo := postgres.NewPromptRepository(db)

	var apiKeyCache *redis.APIKeyCache
	if redisClient != nil {
		apiKeyCache = redis.NewAPIKeyCache(redisClient)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, apiKeyCache)
	promptService := service.NewPromptService(promptRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	promptHandler := handler.NewPromptHandler(promptService)
	mcpHandler := mcp.NewHandler(promptService)

	// Auth middleware
	authMiddleware := custommw.NewAuthMiddleware(authService)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// User routes (public)
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Session)
				r.Get("/me", authHandler.Me)
			})
		})

		// Prompt routes (session token)
		r.Route("/prompts", func(r chi.Router) {
			r.Use(authMiddleware.Session)

			r.Get("/", promptHandler.List)
			r.Get("/{promptID}", promptHandler.Get)

			// Creation additionally demands the static service key.
			r.Group(func(r chi.Router) {
				r.Use(custommw.RequireServiceKey(cfg.Auth.ServiceAPIKey))
				r.Post("/", promptHandler.Create)
			})
		})

		// Tool-call routes (API key only)
		r.Route("/mcp", func(r chi.Router) {
			r.Use(authMiddleware.APIKey)

			r.Post("/tools/list", mcpHandler.ListTools)
			r.Post("/tools/call", mcpHandler.CallTool)
		})
	})

	return r
}
