// Package handler exposes the matcher, the lot list and the donation queue over HTTP.
package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"auction-matcher/internal/auction/intake"
	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/store"
	"auction-matcher/internal/middleware"
)

type Deps struct {
	Lots           *store.LotStore
	Similar        *store.SimilarLots
	Intake         *intake.Intake
	Options        model.Options
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

type Handler struct {
	lots      *store.LotStore
	similar   *store.SimilarLots
	intake    *intake.Intake
	opt       model.Options
	maxUpload int64
	logger    zerolog.Logger
}

func New(d Deps) *Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 32 << 20
	}
	return &Handler{
		lots:      d.Lots,
		similar:   d.Similar,
		intake:    d.Intake,
		opt:       d.Options,
		maxUpload: d.MaxUploadBytes,
		logger:    d.Logger.With().Str("component", "http").Logger(),
	}
}

func (h *Handler) log(r *http.Request) *zerolog.Logger {
	l := middleware.Logger(r, h.logger)
	return &l
}

func Health(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
