package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"auction-matcher/internal/auction/intake"
	"auction-matcher/internal/auction/model"
)

type donationRequest struct {
	ID        string         `json:"id" validate:"max=128"`
	Username  string         `json:"username" validate:"max=128"`
	Message   string         `json:"message" validate:"max=2000"`
	Amount    float64        `json:"amount" validate:"gte=0"`
	Currency  string         `json:"currency" validate:"omitempty,len=3"`
	Platform  model.Platform `json:"platform" validate:"omitempty,oneof=donationalerts twitch donatepay custom"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ReceiveDonation — вход для событий провайдеров. Повтор id не ошибка: outcome=duplicate.
func (h *Handler) ReceiveDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res := h.intake.Receive(model.Donation{
		ID:        req.ID,
		Username:  req.Username,
		Message:   req.Message,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Platform:  req.Platform,
		CreatedAt: req.CreatedAt,
	})
	status := http.StatusOK
	if res.Outcome == intake.OutcomeQueued {
		status = http.StatusAccepted
	}
	h.reply(w, r, status, res)
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	h.reply(w, r, http.StatusOK, h.intake.Pending())
}

func (h *Handler) PreviewDonation(w http.ResponseWriter, r *http.Request) {
	res, err := h.intake.Preview(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.reply(w, r, http.StatusOK, res)
}

type resolveRequest struct {
	Action string `json:"action" validate:"required"`
}

type resolveResponse struct {
	Lot *model.Lot `json:"lot"`
}

func (h *Handler) ResolveDonation(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	action, err := intake.ParseAction(req.Action)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	lot, err := h.intake.Resolve(chi.URLParam(r, "id"), action)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.reply(w, r, http.StatusOK, resolveResponse{Lot: lot})
}
