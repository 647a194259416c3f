package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/admin"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/auth"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/dailycontent"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/progress"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/subscription"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler         *auth.AuthHandler
	SubscriptionHandler *subscription.SubscriptionHandler
	DailyContentHandler *dailycontent.DailyContentHandler
	ProgressHandler     *progress.ProgressHandler
	AdminHandler        *admin.AdminHandler

	AuthenticateMiddleware func(http.Handler) http.Handler
	RequireAdminMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied
// before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://encontrodiario.com.br"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes, no JWT required
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Post("/auth/invalidate-tokens", cfg.AuthHandler.LogoutAll)
			r.Get("/auth/session", cfg.AuthHandler.GetSession)

			r.Get("/subscription/status", cfg.SubscriptionHandler.GetStatus)
			r.Post("/subscription/checkout", cfg.SubscriptionHandler.Checkout)
			r.Get("/subscription/payments", cfg.SubscriptionHandler.PaymentHistory)

			r.Get("/content/today", cfg.DailyContentHandler.Today)

			r.Get("/progress", cfg.ProgressHandler.Get)
			r.Post("/progress/track", cfg.ProgressHandler.Track)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Use(cfg.RequireAdminMiddleware)

			r.Get("/admin/users", cfg.AdminHandler.ListUsers)
			r.Post("/admin/users/{userID}/activate", cfg.SubscriptionHandler.Activate)
			r.Post("/admin/users/{userID}/deactivate", cfg.SubscriptionHandler.Deactivate)
		})
	})

	return r
}
