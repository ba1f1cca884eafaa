package handler

import (
	"errors"
	"fmt"
	"net/http"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/fileio"
)

func (h *Handler) ListLots(w http.ResponseWriter, r *http.Request) {
	h.reply(w, r, http.StatusOK, h.lots.Snapshot())
}

type createLotRequest struct {
	Content string   `json:"content" validate:"max=1000"`
	Amount  *float64 `json:"amount"`
}

func (h *Handler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req createLotRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.reply(w, r, http.StatusCreated, h.lots.Add(req.Content, req.Amount))
}

// updateLotRequest: amount задаёт сумму, addAmount прибавляет, clearAmount стирает.
type updateLotRequest struct {
	Content     *string  `json:"content" validate:"omitnil,max=1000"`
	Amount      *float64 `json:"amount" validate:"excluded_with=AddAmount ClearAmount"`
	AddAmount   *float64 `json:"addAmount"`
	ClearAmount bool     `json:"clearAmount"`
}

func (h *Handler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateLotRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	lot, err := h.lots.Get(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Content != nil {
		if lot, err = h.lots.UpdateContent(id, *req.Content); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	switch {
	case req.ClearAmount:
		lot, err = h.lots.SetAmount(id, nil)
	case req.Amount != nil:
		lot, err = h.lots.SetAmount(id, req.Amount)
	case req.AddAmount != nil:
		lot, err = h.lots.AddAmount(id, *req.AddAmount)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.reply(w, r, http.StatusOK, lot)
}

func (h *Handler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.lots.Delete(id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearLots(w http.ResponseWriter, r *http.Request) {
	h.lots.Clear()
	h.log(r).Info().Msg("lots cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreLots(w http.ResponseWriter, r *http.Request) {
	h.lots.UndoClear()
	h.reply(w, r, http.StatusOK, h.lots.Snapshot())
}

type mergeRequest struct {
	IDs []int `json:"ids" validate:"min=2,unique,dive,gt=0"`
}

var errNothingToMerge = errors.New("fewer than two of the lots exist")

func (h *Handler) MergeLots(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	merged, ok := h.lots.Merge(req.IDs)
	if !ok {
		h.fail(w, r, &ValidationError{Fields: []string{errNothingToMerge.Error()}})
		return
	}
	h.log(r).Info().Ints("ids", req.IDs).Int("into", merged.ID).Msg("lots merged")
	h.reply(w, r, http.StatusOK, merged)
}

type importResponse struct {
	Added int         `json:"added"`
	Lots  []model.Lot `json:"lots"`
}

// ImportLots принимает multipart: file (csv/tsv/xls/xlsx/txt), content_col, amount_col,
// header_row, replace. replace=true сначала очищает список, вернуть его можно через restore.
func (h *Handler) ImportLots(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", errBadBody, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, &ValidationError{Fields: []string{"file is required"}})
		return
	}
	defer file.Close()

	rows, err := fileio.ReadLots(file, header.Filename, fileio.LotMapping{
		ContentKey: r.FormValue("content_col"),
		AmountKey:  r.FormValue("amount_col"),
		HeaderRow:  atoi(r.FormValue("header_row"), 1),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	lots := make([]model.Lot, 0, len(rows))
	for _, row := range rows {
		lots = append(lots, model.Lot{Content: row.Content, Amount: row.Amount})
	}
	if toBool(r.FormValue("replace"), false) {
		h.lots.Clear()
	}
	added := h.lots.AddAll(lots)

	h.log(r).Info().
		Str("file", header.Filename).
		Int("added", len(added)).
		Msg("lots imported")
	h.reply(w, r, http.StatusCreated, importResponse{Added: len(added), Lots: added})
}
