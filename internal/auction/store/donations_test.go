package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/worker"
)

func TestDonationQueue(t *testing.T) {
	t.Parallel()

	q := NewDonationQueue()
	assert.True(t, q.Add(model.Donation{ID: "a", Message: "первый"}))
	assert.True(t, q.Add(model.Donation{ID: "b", Message: "второй"}))
	assert.False(t, q.Add(model.Donation{ID: "a", Message: "дубль"}))

	list := q.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "первый", list[1].Message)
	assert.True(t, q.Has("a"))

	d, err := q.Take("a")
	require.NoError(t, err)
	assert.Equal(t, "первый", d.Message)
	assert.Equal(t, 1, q.Len())

	_, err = q.Take("a")
	assert.ErrorIs(t, err, ErrDonationNotFound)
	_, err = q.Get("zzz")
	assert.ErrorIs(t, err, ErrDonationNotFound)
}

func TestSimilarLots_DropsStale(t *testing.T) {
	t.Parallel()

	s := NewSimilarLots()
	groups, seq := s.Groups()
	assert.Empty(t, groups)
	assert.Zero(t, seq)

	newer := model.Groups{{ID: 1, Members: []int{1, 2}}}
	assert.True(t, s.Apply(2, newer))
	assert.False(t, s.Apply(1, model.Groups{{ID: 5, Members: []int{5, 6}}}))
	assert.False(t, s.Apply(2, nil))

	groups, seq = s.Groups()
	assert.Equal(t, newer, groups)
	assert.Equal(t, uint64(2), seq)

	assert.True(t, s.Apply(3, nil))
	groups, _ = s.Groups()
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestSimilarLots_Consume(t *testing.T) {
	t.Parallel()

	s := NewSimilarLots()
	results := make(chan worker.Response, 3)
	results <- worker.Response{Seq: 2, Groups: model.Groups{{ID: 1, Members: []int{1, 2}}}}
	results <- worker.Response{Seq: 1, Groups: model.Groups{}}
	results <- worker.Response{Seq: 3, Groups: model.Groups{}}
	close(results)

	var updates []model.Groups
	done := make(chan struct{})
	go func() {
		s.Consume(context.Background(), results, func(g model.Groups) { updates = append(updates, g) })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consume did not return after results were closed")
	}
	assert.Len(t, updates, 2)
	_, seq := s.Groups()
	assert.Equal(t, uint64(3), seq)
}
