// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package emap

import (
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/heap"
)

// EMap remembers transaction ids until their expiry passes. It is used
// to reject replays of a signed transaction inside its validity window.
type EMap struct {
	mu sync.Mutex

	// expiries is ordered by the earliest expiry
	expiries heap.Map[ids.ID, int64]
}

func New() *EMap {
	return &EMap{
		expiries: heap.NewMap[ids.ID, int64](func(a, b int64) bool {
			return a < b
		}),
	}
}

// Add records [id] with [expiry]. It returns false if [id] is already
// tracked.
func (e *EMap) Add(id ids.ID, expiry int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.expiries.Contains(id) {
		return false
	}
	e.expiries.Push(id, expiry)
	return true
}

// SetMin evicts every id with an expiry lower than [t] and returns them.
func (e *EMap) SetMin(t int64) []ids.ID {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := []ids.ID{}
	for {
		_, expiry, ok := e.expiries.Peek()
		if !ok || expiry >= t {
			break
		}
		id, _, _ := e.expiries.Pop()
		evicted = append(evicted, id)
	}
	return evicted
}

func (e *EMap) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.expiries.Len()
}
