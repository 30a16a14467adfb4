package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avelinof/linkup-be/internal/api/handlers"
	"github.com/avelinof/linkup-be/internal/auth"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenManager,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	clientOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The SPA sends the session cookie cross-origin, so credentials must be
	// allowed and the origin pinned to the configured client.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{clientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(tokens.Middleware()).Get("/me", authHandler.GetMe)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/suggestions", userHandler.GetSuggestions)
			r.Get("/profile/{username}", userHandler.GetPublicProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Get("/connections", userHandler.GetConnections)
			r.Post("/{username}/connect", userHandler.Connect)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Post("/", postHandler.Create)
			r.Get("/", postHandler.GetFeed)
		})
	})

	return r
}
