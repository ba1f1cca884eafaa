package handler

import (
	"fmt"
	"net/http"
	"time"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/service"
)

type lotInput struct {
	ID      int      `json:"id" validate:"gte=0"`
	Content string   `json:"content" validate:"max=1000"`
	Amount  *float64 `json:"amount"`
}

// toLots: лоты без id нумеруются после наибольшего явного id, флаг плейсхолдера
// считается заново. Явные id не должны повторяться: кластеризация различает лоты по id.
func toLots(in []lotInput) ([]model.Lot, error) {
	maxID := 0
	seen := make(map[int]struct{}, len(in))
	for _, l := range in {
		if l.ID == 0 {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			return nil, &ValidationError{Fields: []string{fmt.Sprintf("lots: id %d must not repeat", l.ID)}}
		}
		seen[l.ID] = struct{}{}
		maxID = max(maxID, l.ID)
	}

	out := make([]model.Lot, len(in))
	for i, l := range in {
		id := l.ID
		if id == 0 {
			maxID++
			id = maxID
		}
		out[i] = model.NewLot(id, l.Content, l.Amount)
	}
	return out, nil
}

// lotsFor returns the request lots, or the current store snapshot when none were sent.
func (h *Handler) lotsFor(in []lotInput) ([]model.Lot, error) {
	if in == nil {
		return h.lots.Snapshot(), nil
	}
	return toLots(in)
}

type matchRequest struct {
	Message   string     `json:"message" validate:"max=2000"`
	Lots      []lotInput `json:"lots" validate:"omitempty,dive"`
	Threshold *float64   `json:"threshold" validate:"omitnil,gte=0,lte=1"`
}

type matchResponse struct {
	BestMatch  *model.Lot `json:"bestMatch"`
	Similarity float64    `json:"similarity"`
	AutoAssign bool       `json:"autoAssign"`
}

// Match сопоставляет сообщение с переданными лотами, а без них с текущим списком.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	lots, err := h.lotsFor(req.Lots)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	opt := h.opt
	if req.Threshold != nil {
		opt.MatchThreshold = *req.Threshold
	}

	res := service.Match(req.Message, lots, opt)
	h.reply(w, r, http.StatusOK, matchResponse{
		BestMatch:  res.BestMatch,
		Similarity: res.Similarity,
		AutoAssign: service.ShouldAutoAssign(res, opt),
	})
}

type groupRequest struct {
	Lots      []lotInput `json:"lots" validate:"omitempty,dive"`
	Threshold *float64   `json:"threshold" validate:"omitnil,gte=0,lte=1"`
}

// Group кластеризует синхронно; для панели есть фоновая подсказка в Similar.
func (h *Handler) Group(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	lots, err := h.lotsFor(req.Lots)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// порог можно передать и в query: /group?threshold=0.7
	threshold := toRatio(r.URL.Query().Get("threshold"), h.opt.GroupThreshold)
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	start := time.Now()
	groups := service.GroupSimilarLotsWith(lots, threshold, h.opt)
	h.log(r).Debug().
		Int("lots", len(lots)).
		Int("groups", len(groups)).
		Dur("elapsed", time.Since(start)).
		Msg("lots grouped")
	h.reply(w, r, http.StatusOK, groups)
}

type similarResponse struct {
	Seq    uint64       `json:"seq"`
	Groups model.Groups `json:"groups"`
}

func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	groups, seq := h.similar.Groups()
	h.reply(w, r, http.StatusOK, similarResponse{Seq: seq, Groups: groups})
}
