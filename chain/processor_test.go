// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/event"
	"github.com/ava-labs/numbervm/event/eventtest"
	"github.com/ava-labs/numbervm/state"
)

var errSubscriber = errors.New("subscriber failed")

func newTestProcessor(t *testing.T, subs ...event.Subscription[Event]) (*Processor, *state.DatabaseStore) {
	store := state.NewDatabaseStore(memdb.New())
	p, err := NewProcessor(
		logging.NoLog{},
		trace.Noop,
		newTestRules(),
		newTestParser(),
		store,
		prometheus.NewRegistry(),
		subs...,
	)
	require.NoError(t, err)
	p.clock = func() time.Time { return time.UnixMilli(1_000) }
	return p, store
}

func TestProcessorExecute(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	rec := &event.Recorder[Event]{}
	p, store := newTestProcessor(t, rec)
	actor := newTestFactory().Address()

	require.NoError(p.Execute(ctx, Signed(actor), &storeAction{Value: 4}))
	v, err := store.GetValue(ctx, storeKey(actor))
	require.NoError(err)
	require.Equal([]byte{4}, v)
	require.Equal([]Event{&storedEvent{Value: 4, Actor: actor}}, rec.Events())
}

func TestProcessorExecuteUnauthorized(t *testing.T) {
	for _, origin := range []Origin{Unsigned(), Root(), nil} {
		require := require.New(t)
		ctx := context.Background()

		rec := &event.Recorder[Event]{}
		p, store := newTestProcessor(t, rec)

		err := p.Execute(ctx, origin, &storeAction{Value: 4})
		require.ErrorIs(err, ErrUnauthorizedOrigin)
		_, err = store.GetValue(ctx, storeKey(newTestFactory().Address()))
		require.ErrorIs(err, database.ErrNotFound)
		require.Empty(rec.Events())
	}
}

func TestProcessorExecuteFailureDiscardsWrites(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	rec := &event.Recorder[Event]{}
	p, store := newTestProcessor(t, rec)
	actor := newTestFactory().Address()

	require.NoError(p.Execute(ctx, Signed(actor), &storeAction{Value: 9}))
	require.ErrorIs(p.Execute(ctx, Signed(actor), &storeAction{Value: 0}), errStoreFailed)

	v, err := store.GetValue(ctx, storeKey(actor))
	require.NoError(err)
	require.Equal([]byte{9}, v)
	require.Len(rec.Events(), 1)
}

func TestProcessorSubscriptionFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	failing := eventtest.NewMockSubscription[Event](ctrl)
	failing.EXPECT().Accept(gomock.Any(), gomock.Any()).Return(errSubscriber).Times(1)
	failing.EXPECT().Close().Return(nil).Times(1)
	rec := &event.Recorder[Event]{}
	p, store := newTestProcessor(t, failing, rec)
	actor := newTestFactory().Address()

	// The transition stands even though a subscriber rejected the event.
	require.NoError(p.Execute(ctx, Signed(actor), &storeAction{Value: 2}))
	v, err := store.GetValue(ctx, storeKey(actor))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	require.Len(rec.Events(), 1)

	require.NoError(p.Close())
	require.True(rec.Closed())
}

func TestProcessorSubscribe(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	p, _ := newTestProcessor(t)
	actor := newTestFactory().Address()
	require.NoError(p.Execute(ctx, Signed(actor), &storeAction{Value: 1}))

	rec := &event.Recorder[Event]{}
	p.Subscribe(rec)
	require.NoError(p.Execute(ctx, Signed(actor), &storeAction{Value: 2}))
	require.Equal([]Event{&storedEvent{Value: 2, Actor: actor}}, rec.Events())
}

func TestProcessorSubmit(t *testing.T) {
	parser := newTestParser()
	sign := func(t *testing.T, f *testFactory, timestamp int64, value uint8) []byte {
		tx, err := NewTx(&Base{Timestamp: timestamp, ChainID: testChainID}, &storeAction{Value: value}).Sign(f, parser)
		require.NoError(t, err)
		return tx.Bytes()
	}

	t.Run("valid", func(t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		rec := &event.Recorder[Event]{}
		p, store := newTestProcessor(t, rec)
		f := newTestFactory()

		id, err := p.Submit(ctx, sign(t, f, 2_000, 6))
		require.NoError(err)
		require.NotEmpty(id)
		v, err := store.GetValue(ctx, storeKey(f.Address()))
		require.NoError(err)
		require.Equal([]byte{6}, v)
		require.Len(rec.Events(), 1)
	})

	t.Run("duplicate", func(t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		p, _ := newTestProcessor(t)
		b := sign(t, newTestFactory(), 2_000, 6)
		_, err := p.Submit(ctx, b)
		require.NoError(err)
		_, err = p.Submit(ctx, b)
		require.ErrorIs(err, ErrDuplicateTx)
	})

	t.Run("bad signature", func(t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		rec := &event.Recorder[Event]{}
		p, store := newTestProcessor(t, rec)
		f := newTestFactory()
		f.corrupt = true

		_, err := p.Submit(ctx, sign(t, f, 2_000, 6))
		require.ErrorIs(err, ErrUnauthorizedOrigin)
		require.ErrorIs(err, errBadSignature)
		_, err = store.GetValue(ctx, storeKey(f.Address()))
		require.ErrorIs(err, database.ErrNotFound)
		require.Empty(rec.Events())
	})

	t.Run("expired", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		_, err := p.Submit(context.Background(), sign(t, newTestFactory(), 999, 6))
		require.ErrorIs(t, err, ErrTimestampTooLate)
	})

	t.Run("malformed", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		_, err := p.Submit(context.Background(), []byte{0x01})
		require.Error(t, err)
	})
}

func TestProcessorReadState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	p, _ := newTestProcessor(t)
	actor := newTestFactory().Address()
	require.NoError(p.Execute(ctx, Signed(actor), &storeAction{Value: 8}))

	values, errs := p.ReadState(ctx, [][]byte{storeKey(actor), {0x01}})
	require.NoError(errs[0])
	require.Equal([]byte{8}, values[0])
	require.ErrorIs(errs[1], database.ErrNotFound)
}

func TestProcessorSubscriptionReadsState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	p, _ := newTestProcessor(t)
	actor := newTestFactory().Address()

	var read [][]byte
	p.Subscribe(event.SubscriptionFunc[Event]{
		AcceptF: func(ctx context.Context, _ Event) error {
			values, errs := p.ReadState(ctx, [][]byte{storeKey(actor)})
			if errs[0] != nil {
				return errs[0]
			}
			read = append(read, values[0])
			return nil
		},
	})

	done := make(chan error, 1)
	go func() {
		if err := p.Execute(ctx, Signed(actor), &storeAction{Value: 3}); err != nil {
			done <- err
			return
		}
		if err := p.Execute(ctx, Signed(actor), &storeAction{Value: 5}); err != nil {
			done <- err
			return
		}
		done <- p.Close()
	}()

	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(5 * time.Second):
		require.FailNow("subscription reading state blocked the processor")
	}
	require.Equal([][]byte{{3}, {5}}, read)
}

func TestProcessorConcurrentDelivery(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	const writers = 16
	p, _ := newTestProcessor(t)
	actors := make([]*testFactory, writers)
	for i := range actors {
		actors[i] = newTestFactory()
	}

	var (
		l         sync.Mutex
		delivered []Event
	)
	p.Subscribe(event.SubscriptionFunc[Event]{
		AcceptF: func(ctx context.Context, e Event) error {
			// Every delivered event is already visible in state.
			values, errs := p.ReadState(ctx, [][]byte{storeKey(e.Owner())})
			if errs[0] != nil {
				return errs[0]
			}
			if len(values[0]) != 1 {
				return errStoreFailed
			}
			l.Lock()
			delivered = append(delivered, e)
			l.Unlock()
			return nil
		},
	})

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i, f := range actors {
		wg.Add(1)
		go func(v uint8, addr codec.Address) {
			defer wg.Done()
			errs <- p.Execute(ctx, Signed(addr), &storeAction{Value: v})
		}(uint8(i+1), f.Address())
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(err)
	}

	l.Lock()
	defer l.Unlock()
	require.Len(delivered, writers)
	require.Equal(uint64(writers), p.delivered)
}
