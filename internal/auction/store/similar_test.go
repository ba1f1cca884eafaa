package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/worker"
)

// Две правки подряд, уведомление первой застревает и приходит последним.
// Подсказка всё равно должна отражать итоговый список лотов.
func TestSimilarLots_LateSnapshotDoesNotWin(t *testing.T) {
	t.Parallel()

	lots := NewLotStore()
	similar := NewSimilarLots()
	grouper := worker.New(model.DefaultOptions(), zerolog.Nop())

	secondDelivered := make(chan struct{})
	lots.OnChange(func(v uint64, snapshot []model.Lot) {
		if len(snapshot) == 2 {
			<-secondDelivered
		}
		grouper.SubmitVersion(v, snapshot)
	})

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	consumeDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = grouper.Run(ctx)
	}()
	go func() {
		defer close(consumeDone)
		similar.Consume(ctx, grouper.Results(), nil)
	}()
	t.Cleanup(func() {
		cancel()
		<-runDone
		<-consumeDone
	})

	firstDone := make(chan struct{})
	var kino model.Lot
	go func() {
		defer close(firstDone)
		kino = lots.Add("Поход в кино", model.Amount(100))
	}()
	require.Eventually(t, func() bool {
		v, _ := lots.Versioned()
		return v == 2
	}, 5*time.Second, time.Millisecond)

	keno := lots.Add("поход в кено", model.Amount(50))
	close(secondDelivered)
	<-firstDone

	want := model.Groups{{ID: kino.ID, Members: []int{kino.ID, keno.ID}}}
	require.Eventually(t, func() bool {
		_, seq := similar.Groups()
		return seq == 3
	}, 5*time.Second, time.Millisecond)
	groups, seq := similar.Groups()
	assert.Equal(t, uint64(3), seq)
	assert.Equal(t, want, groups)
}
