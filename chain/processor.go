// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/emap"
	"github.com/ava-labs/numbervm/event"
	"github.com/ava-labs/numbervm/state"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Processor is the single writer of the state. Every operation is
// authenticated, executed against a private view and committed.
//
// Events are delivered in commit order after the state lock is released.
// A subscription may read state (ReadState) while accepting an event but
// must not execute operations.
type Processor struct {
	log     logging.Logger
	tracer  trace.Tracer
	rules   Rules
	parser  *Parser
	metrics *chainMetrics
	clock   func() time.Time

	l       sync.RWMutex
	store   state.Mutable
	seen    *emap.EMap
	subs    []event.Subscription[Event]
	nextSeq uint64

	// delivered is the sequence number of the next event to deliver.
	notifyL   sync.Mutex
	notifyC   *sync.Cond
	delivered uint64
}

// notification is an event waiting for its turn to be delivered.
type notification struct {
	seq  uint64
	evt  Event
	subs []event.Subscription[Event]
}

func NewProcessor(
	log logging.Logger,
	tracer trace.Tracer,
	rules Rules,
	parser *Parser,
	store state.Mutable,
	registerer prometheus.Registerer,
	subs ...event.Subscription[Event],
) (*Processor, error) {
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	p := &Processor{
		log:     log,
		tracer:  tracer,
		rules:   rules,
		parser:  parser,
		metrics: metrics,
		clock:   time.Now,
		store:   store,
		seen:    emap.New(),
		subs:    subs,
	}
	p.notifyC = sync.NewCond(&p.notifyL)
	return p, nil
}

// Subscribe registers [sub] for every event emitted after this call.
func (p *Processor) Subscribe(sub event.Subscription[Event]) {
	p.l.Lock()
	defer p.l.Unlock()

	p.subs = append(p.subs, sub)
}

// Execute runs [action] on behalf of [origin]. An unauthorized origin is
// rejected before anything is read. On failure nothing is written and no
// event is emitted.
func (p *Processor) Execute(ctx context.Context, origin Origin, action Action) error {
	name := p.parser.Actions().Name(action.GetTypeID())
	ctx, span := p.tracer.Start(ctx, "Processor.Execute", oteltrace.WithAttributes(
		attribute.String("action", name),
	))
	defer span.End()

	actor, err := EnsureSigned(origin)
	if err != nil {
		p.metrics.unauthorized.Inc()
		return err
	}

	p.l.Lock()
	n, err := p.execute(ctx, name, actor, action)
	p.l.Unlock()
	if err != nil {
		return err
	}
	p.notify(ctx, n)
	return nil
}

// execute assumes the write lock is held.
func (p *Processor) execute(ctx context.Context, name string, addr codec.Address, action Action) (*notification, error) {
	start := time.Now()
	defer func() {
		p.metrics.executeDuration.Observe(float64(time.Since(start)))
	}()

	view := state.NewView(action.StateKeys(addr), p.store)
	evt, err := action.Execute(ctx, p.rules, view, addr)
	if err != nil {
		p.metrics.operations.WithLabelValues(name, outcomeFailure).Inc()
		p.log.Debug("operation failed",
			zap.String("action", name),
			zap.Stringer("actor", addr),
			zap.Error(err),
		)
		return nil, err
	}
	changes := view.PendingChanges()
	if err := view.Commit(ctx, p.store); err != nil {
		p.metrics.operations.WithLabelValues(name, outcomeFailure).Inc()
		p.log.Error("unable to commit operation",
			zap.String("action", name),
			zap.Stringer("actor", addr),
			zap.Error(err),
		)
		return nil, err
	}
	p.metrics.operations.WithLabelValues(name, outcomeSuccess).Inc()
	p.log.Debug("operation committed",
		zap.String("action", name),
		zap.Stringer("actor", addr),
		zap.Int("changes", changes),
	)

	n := &notification{
		seq:  p.nextSeq,
		evt:  evt,
		subs: p.subs,
	}
	p.nextSeq++
	return n, nil
}

// notify delivers [n] once every earlier event has been delivered. It must
// be called without holding the state lock.
func (p *Processor) notify(ctx context.Context, n *notification) {
	p.notifyL.Lock()
	defer p.notifyL.Unlock()

	for p.delivered != n.seq {
		p.notifyC.Wait()
	}
	defer func() {
		p.delivered++
		p.notifyC.Broadcast()
	}()

	// Delivery failures belong to the subscriptions; the transition has
	// already happened.
	p.metrics.eventsEmitted.Inc()
	if err := event.NotifyAll(ctx, n.evt, n.subs...); err != nil {
		p.metrics.notifyFailures.Inc()
		p.log.Warn("unable to deliver event",
			zap.Uint8("event", n.evt.GetTypeID()),
			zap.Stringer("account", n.evt.Owner()),
			zap.Error(err),
		)
	}
}

// Submit parses, authenticates and executes a signed transaction.
func (p *Processor) Submit(ctx context.Context, b []byte) (ids.ID, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Submit", oteltrace.WithAttributes(
		attribute.Int("size", len(b)),
	))
	defer span.End()

	p.metrics.txsSubmitted.Inc()
	tx, err := p.parser.ParseTx(b)
	if err != nil {
		p.metrics.txsRejected.Inc()
		return ids.Empty, err
	}
	now := p.clock().UnixMilli()
	if err := tx.Base.Execute(p.rules, now); err != nil {
		p.metrics.txsRejected.Inc()
		return ids.Empty, err
	}
	msg, err := tx.Digest()
	if err != nil {
		p.metrics.txsRejected.Inc()
		return ids.Empty, err
	}
	if err := tx.Auth.Verify(ctx, msg); err != nil {
		p.metrics.txsRejected.Inc()
		p.metrics.unauthorized.Inc()
		return ids.Empty, fmt.Errorf("%w: %w", ErrUnauthorizedOrigin, err)
	}

	n, err := p.submit(ctx, tx, now)
	if err != nil {
		return tx.ID(), err
	}
	p.notify(ctx, n)
	return tx.ID(), nil
}

func (p *Processor) submit(ctx context.Context, tx *Transaction, now int64) (*notification, error) {
	p.l.Lock()
	defer p.l.Unlock()

	p.seen.SetMin(now)
	if !p.seen.Add(tx.ID(), tx.Expiry()) {
		p.metrics.txsRejected.Inc()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
	}
	p.metrics.replayProtection.Set(float64(p.seen.Len()))

	name := p.parser.Actions().Name(tx.Action.GetTypeID())
	return p.execute(ctx, name, tx.Auth.Actor(), tx.Action)
}

// ReadState reads [keys] directly from the committed state.
func (p *Processor) ReadState(ctx context.Context, keys [][]byte) ([][]byte, []error) {
	_, span := p.tracer.Start(ctx, "Processor.ReadState", oteltrace.WithAttributes(
		attribute.Int("keys", len(keys)),
	))
	defer span.End()

	p.l.RLock()
	defer p.l.RUnlock()

	values := make([][]byte, len(keys))
	errs := make([]error, len(keys))
	for i, k := range keys {
		values[i], errs[i] = p.store.GetValue(ctx, k)
	}
	return values, errs
}

func (p *Processor) Rules() Rules {
	return p.rules
}

func (p *Processor) Parser() *Parser {
	return p.parser
}

func (p *Processor) Tracer() trace.Tracer {
	return p.tracer
}

// Close closes every subscription.
func (p *Processor) Close() error {
	p.l.Lock()
	defer p.l.Unlock()

	var errs []error
	for _, sub := range p.subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.subs = nil
	return errors.Join(errs...)
}
