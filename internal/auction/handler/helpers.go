package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"auction-matcher/internal/auction/intake"
	"auction-matcher/internal/auction/store"
	"auction-matcher/internal/fileio"
)

var (
	errBadID   = errors.New("bad id")
	errBadBody = errors.New("bad request body")
)

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// statusOf сопоставляет доменные ошибки HTTP-статусам.
func statusOf(err error) int {
	var (
		ve       *ValidationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ve), errors.Is(err, errBadBody), errors.Is(err, errBadID),
		errors.Is(err, intake.ErrUnknownAction), errors.Is(err, fileio.ErrUnsupported),
		errors.Is(err, fileio.ErrNoContentColumn):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrLotNotFound), errors.Is(err, store.ErrDonationNotFound):
		return http.StatusNotFound
	case errors.Is(err, intake.ErrNoMatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := errorBody{Error: err.Error()}
	var ve *ValidationError
	if errors.As(err, &ve) {
		body.Error = "invalid request"
		body.Fields = ve.Fields
	}
	log := h.log(r)
	if status >= 500 {
		log.Error().Err(err).Msg("request failed")
		body.Error = "internal"
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	_ = writeJSON(w, status, body)
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		h.log(r).Error().Err(err).Msg("write json")
	}
}

// decode читает JSON-тело и валидирует его. Пустое тело допустимо: все поля по умолчанию.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return validateStruct(dst)
}

func idParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errBadID, raw)
	}
	return id, nil
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// toRatio разбирает порог из query/form; вне [0, 1] возвращает def.
func toRatio(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > 1 {
		return def
	}
	return f
}
