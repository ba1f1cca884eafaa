package store

import (
	"errors"
	"fmt"
	"slices"

	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/syncutil"
)

var ErrDonationNotFound = errors.New("donation not found")

// DonationQueue — донаты, ожидающие ручного разбора. Новые сверху.
type DonationQueue struct {
	mu        syncutil.Mutex
	donations []model.Donation
}

func NewDonationQueue() *DonationQueue {
	return &DonationQueue{}
}

// Add prepends d. It reports false when a donation with the same id is already queued.
func (q *DonationQueue) Add(d model.Donation) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.indexOf(d.ID) >= 0 {
		return false
	}
	q.donations = slices.Insert(q.donations, 0, d)
	return true
}

func (q *DonationQueue) Has(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.indexOf(id) >= 0
}

func (q *DonationQueue) Get(id string) (model.Donation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.indexOf(id); i >= 0 {
		return q.donations[i], nil
	}
	return model.Donation{}, fmt.Errorf("get donation %q: %w", id, ErrDonationNotFound)
}

// Take removes the donation and returns it.
func (q *DonationQueue) Take(id string) (model.Donation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.indexOf(id)
	if i < 0 {
		return model.Donation{}, fmt.Errorf("take donation %q: %w", id, ErrDonationNotFound)
	}
	d := q.donations[i]
	q.donations = slices.Delete(q.donations, i, i+1)
	return d, nil
}

func (q *DonationQueue) List() []model.Donation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.donations)
}

func (q *DonationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.donations)
}

func (q *DonationQueue) indexOf(id string) int {
	return slices.IndexFunc(q.donations, func(d model.Donation) bool { return d.ID == id })
}
