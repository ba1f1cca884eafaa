// Package worker runs lot clustering off the request path. Callers post lot
// snapshots, the worker posts group maps back; nothing else is shared.
package worker

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/service"
	"auction-matcher/internal/syncutil"
)

// Request — снимок лотов для одной кластеризации.
type Request struct {
	Seq  uint64
	Lots []model.Lot
}

// Response — результат для запроса Seq.
type Response struct {
	Seq     uint64
	Groups  model.Groups
	Lots    int
	Elapsed time.Duration
}

type Worker struct {
	opt     model.Options
	logger  zerolog.Logger
	mailbox chan Request
	results chan Response

	mu  syncutil.Mutex
	seq uint64
}

func New(opt model.Options, logger zerolog.Logger) *Worker {
	return &Worker{
		opt:     opt,
		logger:  logger.With().Str("component", "similar-lots").Logger(),
		mailbox: make(chan Request, 1),
		results: make(chan Response, 1),
	}
}

// Submit posts a snapshot and returns its sequence number. A request that has not
// started yet is replaced, so a burst of lot edits costs one clustering pass.
// Submit never blocks.
func (w *Worker) Submit(lots []model.Lot) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.post(Request{Seq: w.seq + 1, Lots: slices.Clone(lots)})
	return w.seq
}

// SubmitVersion posts a snapshot that already carries a version, e.g. from the lot
// store. The version becomes the request's Seq. Snapshots not newer than the last
// posted one arrived late and are dropped; the result reports whether lots were posted.
func (w *Worker) SubmitVersion(version uint64, lots []model.Lot) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if version <= w.seq {
		w.logger.Debug().Uint64("version", version).Uint64("last", w.seq).Msg("outdated snapshot dropped")
		return false
	}
	w.post(Request{Seq: version, Lots: slices.Clone(lots)})
	return true
}

// post вызывается под w.mu.
func (w *Worker) post(req Request) {
	w.seq = req.Seq
	select {
	case old := <-w.mailbox:
		w.logger.Debug().Uint64("seq", old.Seq).Uint64("by", req.Seq).Msg("request superseded")
	default:
	}
	// ящик пуст и мьютекс наш, отправка не блокируется
	w.mailbox <- req
}

// Results delivers responses in request order. It is closed when Run returns.
func (w *Worker) Results() <-chan Response {
	return w.results
}

// Run processes requests until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.results)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-w.mailbox:
			resp := w.process(req)
			select {
			case w.results <- resp:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (w *Worker) process(req Request) Response {
	start := time.Now()
	groups := service.GroupSimilarLotsWith(req.Lots, w.opt.GroupThreshold, w.opt)
	resp := Response{
		Seq:     req.Seq,
		Groups:  groups,
		Lots:    len(req.Lots),
		Elapsed: time.Since(start),
	}
	w.logger.Debug().
		Uint64("seq", resp.Seq).
		Int("lots", resp.Lots).
		Int("groups", len(groups)).
		Dur("elapsed", resp.Elapsed).
		Msg("similar lots grouped")
	return resp
}
