package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/syncutil"
)

var ErrLotNotFound = errors.New("lot not found")

// LotStore хранит список лотов аукциона. Пустой список всегда содержит один
// плейсхолдер, id выдаются монотонно.
type LotStore struct {
	mu          syncutil.RWMutex
	lots        []model.Lot
	nextID      int
	lastCleared []model.Lot
	version     uint64
	subscribers []func(version uint64, lots []model.Lot)
}

func NewLotStore() *LotStore {
	return &LotStore{
		lots:    []model.Lot{model.NewLot(1, "", nil)},
		nextID:  2,
		version: 1,
	}
}

// OnChange registers fn to receive a snapshot after every mutation.
// Callbacks run outside the store lock, on the mutating goroutine, so concurrent
// mutations may deliver out of order: a snapshot is current only if its version
// is the largest the subscriber has seen.
func (s *LotStore) OnChange(fn func(version uint64, lots []model.Lot)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current lots in display order.
func (s *LotStore) Snapshot() []model.Lot {
	_, lots := s.Versioned()
	return lots
}

// Versioned returns the current lots together with the version of the last
// mutation. Versions start at 1 and grow with every committed mutation.
func (s *LotStore) Versioned() (uint64, []model.Lot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, cloneLots(s.lots)
}

func (s *LotStore) Get(id int) (model.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneLot(s.lots[i]), nil
	}
	return model.Lot{}, fmt.Errorf("get lot %d: %w", id, ErrLotNotFound)
}

func (s *LotStore) Add(content string, amount *float64) model.Lot {
	var lot model.Lot
	s.mutate(func() error {
		lot = model.NewLot(s.nextID, content, cloneAmount(amount))
		s.nextID++
		s.lots = sortLots(append(s.lots, lot))
		return nil
	})
	return cloneLot(lot)
}

// AddAll adds lots in one mutation, so subscribers see a single snapshot.
// Input ids are ignored.
func (s *LotStore) AddAll(lots []model.Lot) []model.Lot {
	added := make([]model.Lot, 0, len(lots))
	s.mutate(func() error {
		for _, l := range lots {
			lot := model.NewLot(s.nextID, l.Content, cloneAmount(l.Amount))
			s.nextID++
			added = append(added, lot)
		}
		s.lots = sortLots(append(s.lots, added...))
		return nil
	})
	return cloneLots(added)
}

func (s *LotStore) Delete(id int) error {
	return s.mutate(func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("delete lot %d: %w", id, ErrLotNotFound)
		}
		s.lots = slices.Delete(s.lots, i, i+1)
		s.ensurePlaceholder()
		return nil
	})
}

// AddAmount прибавляет delta к сумме лота; нулевой итог превращается в пустую сумму.
func (s *LotStore) AddAmount(id int, delta float64) (model.Lot, error) {
	var lot model.Lot
	err := s.mutate(func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("add amount to lot %d: %w", id, ErrLotNotFound)
		}
		var amount *float64
		if total := s.lots[i].AmountValue() + delta; total != 0 {
			amount = model.Amount(total)
		}
		lot = model.NewLot(id, s.lots[i].Content, amount)
		s.lots[i] = lot
		s.lots = sortLots(s.lots)
		return nil
	})
	return cloneLot(lot), err
}

func (s *LotStore) SetAmount(id int, amount *float64) (model.Lot, error) {
	var lot model.Lot
	err := s.mutate(func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("set amount of lot %d: %w", id, ErrLotNotFound)
		}
		lot = model.NewLot(id, s.lots[i].Content, cloneAmount(amount))
		s.lots[i] = lot
		s.lots = sortLots(s.lots)
		return nil
	})
	return cloneLot(lot), err
}

// UpdateContent меняет текст без пересортировки: порядок зависит только от сумм.
func (s *LotStore) UpdateContent(id int, content string) (model.Lot, error) {
	var lot model.Lot
	err := s.mutate(func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("update lot %d: %w", id, ErrLotNotFound)
		}
		lot = model.NewLot(id, content, s.lots[i].Amount)
		s.lots[i] = lot
		return nil
	})
	return cloneLot(lot), err
}

// Replace loads a whole list (profile import). nextID is moved past the largest id.
func (s *LotStore) Replace(lots []model.Lot) {
	s.mutate(func() error {
		if len(lots) == 0 {
			s.lots = nil
			s.ensurePlaceholder()
			return nil
		}
		maxID := 0
		next := make([]model.Lot, 0, len(lots))
		for _, l := range lots {
			maxID = max(maxID, l.ID)
			next = append(next, model.NewLot(l.ID, l.Content, cloneAmount(l.Amount)))
		}
		s.lots = sortLots(next)
		s.nextID = max(s.nextID, maxID+1)
		return nil
	})
}

// Clear keeps the previous list for UndoClear and resets ids.
func (s *LotStore) Clear() {
	s.mutate(func() error {
		if len(s.lots) == 1 && s.lots[0].IsPlaceholder && s.lots[0].ID == 1 {
			return nil
		}
		s.lastCleared = s.lots
		s.lots = []model.Lot{model.NewLot(1, "", nil)}
		s.nextID = 2
		return nil
	})
}

func (s *LotStore) UndoClear() {
	s.mutate(func() error {
		restored := s.lastCleared
		s.lastCleared = nil
		if restored == nil {
			s.lots = nil
			s.ensurePlaceholder()
			return nil
		}
		maxID := 0
		for _, l := range restored {
			maxID = max(maxID, l.ID)
		}
		s.lots = sortLots(restored)
		s.nextID = max(s.nextID, maxID+1)
		return nil
	})
}

// Merge сливает лоты в лот с наименьшим id, суммы складываются.
// Если существующих лотов меньше двух, ничего не меняется.
func (s *LotStore) Merge(ids []int) (model.Lot, bool) {
	var (
		merged model.Lot
		done   bool
	)
	s.mutate(func() error {
		if len(ids) < 2 {
			return nil
		}
		var (
			main  *model.Lot
			total float64
			found int
		)
		for i := range s.lots {
			if !slices.Contains(ids, s.lots[i].ID) {
				continue
			}
			found++
			total += s.lots[i].AmountValue()
			if main == nil || s.lots[i].ID < main.ID {
				main = &s.lots[i]
			}
		}
		if found < 2 {
			return nil
		}
		merged = model.NewLot(main.ID, main.Content, model.Amount(total))
		rest := slices.DeleteFunc(slices.Clone(s.lots), func(l model.Lot) bool {
			return slices.Contains(ids, l.ID)
		})
		s.lots = sortLots(append(rest, merged))
		done = true
		return nil
	})
	return cloneLot(merged), done
}

// mutate runs fn under the write lock and notifies subscribers when fn succeeds.
// Версия выдаётся под тем же локом, что и изменение, поэтому порядок версий
// совпадает с порядком коммитов.
func (s *LotStore) mutate(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	version := s.version
	snapshot := cloneLots(s.lots)
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(version, snapshot)
	}
	return nil
}

func (s *LotStore) indexOf(id int) int {
	return slices.IndexFunc(s.lots, func(l model.Lot) bool { return l.ID == id })
}

func (s *LotStore) ensurePlaceholder() {
	if len(s.lots) > 0 {
		return
	}
	s.lots = []model.Lot{model.NewLot(s.nextID, "", nil)}
	s.nextID++
}

// Порядок: положительные суммы по убыванию, затем нулевые/пустые, затем отрицательные.
func lotCategory(l model.Lot) int {
	switch {
	case l.Amount != nil && *l.Amount > 0:
		return 0
	case l.Amount == nil || *l.Amount == 0:
		return 1
	default:
		return 2
	}
}

func sortLots(lots []model.Lot) []model.Lot {
	sort.SliceStable(lots, func(i, j int) bool {
		ci, cj := lotCategory(lots[i]), lotCategory(lots[j])
		if ci != cj {
			return ci < cj
		}
		return lots[i].AmountValue() > lots[j].AmountValue()
	})
	return lots
}

func cloneAmount(a *float64) *float64 {
	if a == nil {
		return nil
	}
	return model.Amount(*a)
}

func cloneLot(l model.Lot) model.Lot {
	l.Amount = cloneAmount(l.Amount)
	return l
}

func cloneLots(lots []model.Lot) []model.Lot {
	out := make([]model.Lot, len(lots))
	for i, l := range lots {
		out[i] = cloneLot(l)
	}
	return out
}
