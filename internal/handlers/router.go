package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appMiddleware "github.com/profilekeeper/backend/internal/middleware"
)

type RouterConfig struct {
	Profiles          *ProfileHandler
	Authenticator     appMiddleware.Authenticator
	SessionCookieName string
	AllowedOrigins    []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(appMiddleware.Authenticate(cfg.Authenticator, cfg.SessionCookieName))

		r.Route("/user/profile", func(r chi.Router) {
			r.Get("/", cfg.Profiles.GetProfile)
			r.Put("/", cfg.Profiles.UpdateProfile)
		})
	})

	return r
}
