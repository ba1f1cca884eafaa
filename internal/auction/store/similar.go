package store

import (
	"context"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/worker"
	"auction-matcher/internal/syncutil"
)

// SimilarLots держит последнюю подсказку «эти лоты похожи» от фонового воркера.
// Подсказка только для отображения, лоты она не меняет.
type SimilarLots struct {
	mu     syncutil.RWMutex
	seq    uint64
	groups model.Groups
}

func NewSimilarLots() *SimilarLots {
	return &SimilarLots{groups: model.Groups{}}
}

// Apply stores groups computed for request seq. Results for requests that are not
// newer than the applied one are stale and dropped.
func (s *SimilarLots) Apply(seq uint64, groups model.Groups) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.seq {
		return false
	}
	s.seq = seq
	if groups == nil {
		groups = model.Groups{}
	}
	s.groups = groups
	return true
}

// Groups returns the latest hint and the sequence it was computed for.
func (s *SimilarLots) Groups() (model.Groups, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups, s.seq
}

// Consume applies worker responses until ctx is done or results is closed.
// onUpdate is called for every response that was not stale.
func (s *SimilarLots) Consume(ctx context.Context, results <-chan worker.Response, onUpdate func(model.Groups)) {
	for {
		select {
		case <-ctx.Done():
			return
		case resp, ok := <-results:
			if !ok {
				return
			}
			if s.Apply(resp.Seq, resp.Groups) && onUpdate != nil {
				onUpdate(resp.Groups)
			}
		}
	}
}
