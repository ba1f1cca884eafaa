// Package intake decides what happens to a donation event: it is either added to
// the lot it clearly names or queued for the operator together with a suggestion.
package intake

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/service"
	"auction-matcher/internal/auction/store"
	"auction-matcher/internal/syncutil"
)

type Outcome string

const (
	OutcomeAssigned  Outcome = "assigned"
	OutcomeQueued    Outcome = "queued"
	OutcomeDuplicate Outcome = "duplicate"
)

// Action — ручное решение оператора по донату из очереди.
type Action string

const (
	ActionDelete         Action = "DELETE"
	ActionCreateNewLot   Action = "CREATE_NEW_LOT"
	ActionAddToRandomLot Action = "ADD_TO_RANDOM_LOT"
	ActionAddToBestMatch Action = "ADD_TO_BEST_MATCH_LOT"
)

// сколько последних id помним для отсева повторных событий
const recentDonationsWindow = 512

var (
	ErrUnknownAction = errors.New("unknown donation action")
	ErrNoMatch       = errors.New("no matching lot")
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case ActionDelete, ActionCreateNewLot, ActionAddToRandomLot, ActionAddToBestMatch:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

type Result struct {
	Outcome  Outcome           `json:"outcome"`
	Donation model.Donation    `json:"donation"`
	Match    model.MatchResult `json:"match"`
	Lot      *model.Lot        `json:"lot,omitempty"`
}

// Pending — донат в очереди с живой подсказкой по текущим лотам.
type Pending struct {
	Donation   model.Donation    `json:"donation"`
	Suggestion model.MatchResult `json:"suggestion"`
}

type Intake struct {
	lots   *store.LotStore
	queue  *store.DonationQueue
	opt    model.Options
	clock  clockwork.Clock
	logger zerolog.Logger
	pick   func(n int) int

	mu        syncutil.Mutex
	recent    map[string]struct{}
	recentLog []string
	listeners []func([]Pending)

	// notifyMu упорядочивает рассылку: список очереди собирается и отдаётся под
	// ним, поэтому более позднее уведомление не может нести более старый список.
	notifyMu syncutil.Mutex
}

type Option func(*Intake)

func WithClock(c clockwork.Clock) Option {
	return func(in *Intake) { in.clock = c }
}

// WithPicker replaces the random lot picker; pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(in *Intake) { in.pick = pick }
}

func New(lots *store.LotStore, queue *store.DonationQueue, opt model.Options, logger zerolog.Logger, opts ...Option) *Intake {
	in := &Intake{
		lots:   lots,
		queue:  queue,
		opt:    opt,
		clock:  clockwork.NewRealClock(),
		logger: logger.With().Str("component", "intake").Logger(),
		pick:   rand.IntN,
		recent: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(in)
	}
	return in
}

// OnQueueChange registers fn to receive the pending list after the queue changes.
func (in *Intake) OnQueueChange(fn func([]Pending)) {
	in.mu.Lock()
	in.listeners = append(in.listeners, fn)
	in.mu.Unlock()
}

// Receive обрабатывает донат от провайдера: сопоставление выполняется один раз по
// текущему снимку лотов. Уверенное совпадение сразу добавляет сумму к лоту,
// остальное уходит в очередь на ручной разбор.
func (in *Intake) Receive(d model.Donation) Result {
	d = in.complete(d)
	log := in.logger.With().Str("donation", d.ID).Str("platform", string(d.Platform)).Logger()

	if !in.remember(d.ID) || in.queue.Has(d.ID) {
		log.Debug().Msg("duplicate donation ignored")
		return Result{Outcome: OutcomeDuplicate, Donation: d}
	}

	match := service.Match(d.Message, in.lots.Snapshot(), in.opt)
	if service.ShouldAutoAssign(match, in.opt) {
		lot, err := in.lots.AddAmount(match.BestMatch.ID, math.Round(d.Amount))
		if err == nil {
			log.Info().
				Int("lot", lot.ID).
				Float64("similarity", match.Similarity).
				Float64("amount", d.Amount).
				Msg("donation assigned automatically")
			return Result{Outcome: OutcomeAssigned, Donation: d, Match: match, Lot: &lot}
		}
		// лот удалили между снимком и обновлением
		log.Warn().Err(err).Msg("auto-assign target vanished, queueing")
	}

	in.queue.Add(d)
	ev := log.Info().Float64("similarity", match.Similarity)
	if match.Found() {
		ev = ev.Int("suggested_lot", match.BestMatch.ID)
	}
	ev.Msg("donation queued for review")
	in.notify()
	return Result{Outcome: OutcomeQueued, Donation: d, Match: match}
}

// Preview is the live suggestion for a queued donation against the current lots.
func (in *Intake) Preview(id string) (model.MatchResult, error) {
	d, err := in.queue.Get(id)
	if err != nil {
		return model.NoMatch(), err
	}
	return service.Match(d.Message, in.lots.Snapshot(), in.opt), nil
}

// Pending lists queued donations, newest first, each with its current suggestion.
func (in *Intake) Pending() []Pending {
	lots := in.lots.Snapshot()
	queued := in.queue.List()
	out := make([]Pending, len(queued))
	for i, d := range queued {
		out[i] = Pending{Donation: d, Suggestion: service.Match(d.Message, lots, in.opt)}
	}
	return out
}

// Resolve applies an operator action and removes the donation from the queue.
// ADD_TO_BEST_MATCH_LOT without a match leaves the donation queued and returns ErrNoMatch.
func (in *Intake) Resolve(id string, action Action) (*model.Lot, error) {
	d, err := in.queue.Get(id)
	if err != nil {
		return nil, err
	}

	var lot *model.Lot
	switch action {
	case ActionDelete:
	case ActionCreateNewLot:
		l := in.lots.Add(d.Message, model.Amount(d.Amount))
		lot = &l
	case ActionAddToRandomLot:
		lot, err = in.addToRandom(d)
	case ActionAddToBestMatch:
		match := service.Match(d.Message, in.lots.Snapshot(), in.opt)
		if !match.Found() {
			return nil, fmt.Errorf("resolve donation %q: %w", id, ErrNoMatch)
		}
		var l model.Lot
		l, err = in.lots.AddAmount(match.BestMatch.ID, d.Amount)
		lot = &l
	default:
		return nil, fmt.Errorf("resolve donation %q: %w: %q", id, ErrUnknownAction, action)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve donation %q: %w", id, err)
	}

	if _, err := in.queue.Take(id); err != nil {
		return lot, err
	}
	ev := in.logger.Info().Str("donation", id).Str("action", string(action))
	if lot != nil {
		ev = ev.Int("lot", lot.ID)
	}
	ev.Msg("donation resolved")
	in.notify()
	return lot, nil
}

func (in *Intake) addToRandom(d model.Donation) (*model.Lot, error) {
	var filled []model.Lot
	for _, l := range in.lots.Snapshot() {
		if !l.IsPlaceholder && strings.TrimSpace(l.Content) != "" {
			filled = append(filled, l)
		}
	}
	if len(filled) == 0 {
		l := in.lots.Add(d.Message, model.Amount(d.Amount))
		return &l, nil
	}
	l, err := in.lots.AddAmount(filled[in.pick(len(filled))].ID, d.Amount)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (in *Intake) complete(d model.Donation) model.Donation {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = in.clock.Now().UTC()
	}
	if d.Platform == "" {
		d.Platform = model.PlatformCustom
	}
	return d
}

// remember reports false if id was seen among the last recentDonationsWindow donations.
func (in *Intake) remember(id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.recent[id]; ok {
		return false
	}
	in.recent[id] = struct{}{}
	in.recentLog = append(in.recentLog, id)
	if len(in.recentLog) > recentDonationsWindow {
		delete(in.recent, in.recentLog[0])
		in.recentLog = in.recentLog[1:]
	}
	return true
}

// notify calls listeners with the current queue. Listeners must not call back
// into Receive or Resolve.
func (in *Intake) notify() {
	in.mu.Lock()
	listeners := append(([]func([]Pending))(nil), in.listeners...)
	in.mu.Unlock()
	if len(listeners) == 0 {
		return
	}
	in.notifyMu.Lock()
	defer in.notifyMu.Unlock()
	pending := in.Pending()
	for _, fn := range listeners {
		fn(pending)
	}
}
