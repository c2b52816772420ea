package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/recipe-api/internal/api"
	apiMiddleware "github.com/phrazzld/recipe-api/internal/api/middleware"
	"github.com/phrazzld/recipe-api/internal/redact"
)

// healthTimeout bounds the database ping done by /health.
const healthTimeout = 2 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
// Every resource route answers with and without a trailing slash.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(middleware.Recoverer)
	if origins := app.config.Server.CORSAllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{apiMiddleware.TraceIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	recipeHandler := api.NewRecipeHandler(app.recipeService, app.logger)
	tagHandler := api.NewLabelHandler(app.tagService, app.logger)
	ingredientHandler := api.NewLabelHandler(app.ingredientService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public, throttled per client IP)
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RateLimit(app.authLimiter, app.authLimiterRetryIn))
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/register/", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/login/", authHandler.Login)
			r.Post("/auth/refresh", authHandler.RefreshToken)
			r.Post("/auth/refresh/", authHandler.RefreshToken)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", userHandler.GetMe)
				r.Patch("/", userHandler.UpdateMe)
			})

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", recipeHandler.List)
				r.Post("/", recipeHandler.Create)
				r.Route("/{id:[0-9]+}", func(r chi.Router) {
					r.Get("/", recipeHandler.Get)
					r.Put("/", recipeHandler.Update)
					r.Patch("/", recipeHandler.Patch)
					r.Delete("/", recipeHandler.Delete)
				})
			})

			for _, h := range []*api.LabelHandler{tagHandler, ingredientHandler} {
				r.Route("/"+h.Plural(), func(r chi.Router) {
					r.Get("/", h.List)
					r.Route("/{id:[0-9]+}", func(r chi.Router) {
						r.Get("/", h.Get)
						r.Put("/", h.Update)
						r.Patch("/", h.Patch)
						r.Delete("/", h.Delete)
					})
				})
			}
		})
	})

	r.Get("/health", app.handleHealth)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}

// handleHealth reports 200 when the database answers a ping and 503 otherwise.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Warn("health check failed", slog.String("error", redact.Error(err)))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
	}
}
