package serverhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"auction-matcher/internal/auction/handler"
	"auction-matcher/internal/config"
	"auction-matcher/internal/middleware"
)

func NewRouter(cfg config.Config, h *handler.Handler, ws http.Handler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}))

	r.Get("/health", handler.Health)
	r.Get("/ws", ws.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitBytes(cfg.MaxUploadBytes()))

		r.Post("/match", h.Match)
		r.Post("/group", h.Group)

		r.Route("/lots", func(r chi.Router) {
			r.Get("/", h.ListLots)
			r.Post("/", h.CreateLot)
			r.Delete("/", h.ClearLots)
			r.Post("/restore", h.RestoreLots)
			r.Post("/merge", h.MergeLots)
			r.Post("/import", h.ImportLots)
			r.Get("/similar", h.Similar)
			r.Patch("/{id}", h.UpdateLot)
			r.Delete("/{id}", h.DeleteLot)
		})

		r.Route("/donations", func(r chi.Router) {
			r.Get("/", h.ListDonations)
			r.Post("/", h.ReceiveDonation)
			r.Get("/{id}/preview", h.PreviewDonation)
			r.Post("/{id}/resolve", h.ResolveDonation)
		})
	})

	return r
}
