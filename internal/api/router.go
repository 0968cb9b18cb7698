package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lmoretti/sentiment-be/internal/api/handlers"
	"github.com/lmoretti/sentiment-be/internal/auth"
	"github.com/lmoretti/sentiment-be/internal/monitoring"
	"github.com/lmoretti/sentiment-be/internal/services"
	"github.com/lmoretti/sentiment-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, userService services.UserServiceProvider, analysisService services.AnalysisServiceProvider, watchService services.WatchServiceProvider, statUpdater *monitoring.StatUpdater) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	watchHandler := handlers.NewWatchHandler(watchService)
	systemHandler := handlers.NewSystemHandler(statUpdater)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.With(auth.JWTMiddleware()).Get("/me", userHandler.GetMe)
		})

		// Everything past login requires a token
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/ws", wsHandler.Serve)
			r.Get("/models", analysisHandler.ListModels)

			r.Route("/analysis", func(r chi.Router) {
				r.Post("/text", analysisHandler.AnalyzeText)
				r.Post("/feed", analysisHandler.AnalyzeFeed)
				r.Get("/history", analysisHandler.History)
			})

			r.Route("/watches", func(r chi.Router) {
				r.Get("/", watchHandler.List)
				r.Post("/", watchHandler.Create)
				r.Delete("/{id}", watchHandler.Delete)
			})

			r.Get("/system/status", systemHandler.Status)
		})
	})

	return r
}
