//go:build !deadlock

// Package syncutil provides mutex types that turn into deadlock-detecting ones
// when built with -tags=deadlock.
package syncutil

import "sync"

const DeadlockEnabled = false

type Mutex struct {
	sync.Mutex
}

type RWMutex struct {
	sync.RWMutex
}
