package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kiwari-pos/storefront/internal/config"
	"github.com/kiwari-pos/storefront/internal/handler"
	mw "github.com/kiwari-pos/storefront/internal/middleware"
	"github.com/kiwari-pos/storefront/internal/service"
	"github.com/kiwari-pos/storefront/internal/session"
	"github.com/kiwari-pos/storefront/internal/ws"
	"go.uber.org/zap"
)

// New creates a Chi router with all storefront routes wired up.
func New(cfg *config.Config, svc *service.Storefront, store session.Store, hub *ws.Hub, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	categoryHandler := handler.NewCategoryHandler(svc, log)
	r.Route("/categories", categoryHandler.RegisterRoutes)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/views/{vid}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, store, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		customerHandler := handler.NewCustomerHandler(svc, log)
		r.Route("/me", customerHandler.RegisterRoutes)

		viewHandler := handler.NewViewHandler(svc, log)
		viewHandler.RegisterRoutes(r)
	})

	log.Info("router initialized")
	return r
}
