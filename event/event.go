// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
	"sync"
)

var (
	_ Subscription[struct{}] = (*SubscriptionFunc[struct{}])(nil)
	_ Subscription[struct{}] = (*Recorder[struct{}])(nil)
)

//go:generate go run go.uber.org/mock/mockgen -package=eventtest -destination=eventtest/mock_subscription.go -mock_names=Subscription=MockSubscription github.com/ava-labs/numbervm/event Subscription

// Subscription defines how to consume events
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close returns fatal errors
	Close() error
}

// SubscriptionFunc adapts plain functions to [Subscription].
type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
	CloseF  func() error
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (s SubscriptionFunc[_]) Close() error {
	if s.CloseF == nil {
		return nil
	}
	return s.CloseF()
}

// NotifyAll delivers [e] to every subscription, even if an earlier one
// fails, and joins the errors.
func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every accepted event in order.
type Recorder[T any] struct {
	l      sync.Mutex
	events []T
	closed bool
}

func (r *Recorder[T]) Accept(_ context.Context, t T) error {
	r.l.Lock()
	defer r.l.Unlock()

	r.events = append(r.events, t)
	return nil
}

func (r *Recorder[T]) Close() error {
	r.l.Lock()
	defer r.l.Unlock()

	r.closed = true
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder[T]) Events() []T {
	r.l.Lock()
	defer r.l.Unlock()

	events := make([]T, len(r.events))
	copy(events, r.events)
	return events
}

func (r *Recorder[T]) Closed() bool {
	r.l.Lock()
	defer r.l.Unlock()

	return r.closed
}
