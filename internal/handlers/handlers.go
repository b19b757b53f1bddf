package handlers

import (
	"StoreText/internal/config"
	"StoreText/internal/middleware"
	"StoreText/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	siteService *service.SiteService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	siteHandler := NewSiteHandler(siteService, logger)

	r.Get("/api/ping", siteHandler.Ping)

	// Site routes
	r.Route("/api/sites/{name}", func(r chi.Router) {
		r.Post("/", siteHandler.Claim)
		r.Put("/", siteHandler.Put)
		r.Get("/", siteHandler.Get)
	})

	return &Handler{Router: r}
}
