// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"io"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/numbervm/actions"
	"github.com/ava-labs/numbervm/api/jsonrpc"
	"github.com/ava-labs/numbervm/auth"
	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/config"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/event"
)

func newTestConfig(t *testing.T) *config.Config {
	cfg, err := config.New(nil)
	require.NoError(t, err)
	cfg.HTTPAddress = "127.0.0.1:0"
	return cfg
}

func newTestVM(t *testing.T, cfg *config.Config) (*VM, *event.Recorder[chain.Event]) {
	require := require.New(t)

	vm, err := New(context.Background(), cfg, logging.NoLog{})
	require.NoError(err)
	t.Cleanup(func() {
		require.NoError(vm.Close())
	})

	events := &event.Recorder[chain.Event]{}
	vm.Subscribe(events)
	return vm, events
}

func newAddress() codec.Address {
	return codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
}

func TestAccountLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	vm, events := newTestVM(t, newTestConfig(t))
	addr := newAddress()
	origin := chain.Signed(addr)

	n, err := vm.GetNumber(ctx, addr)
	require.NoError(err)
	require.Zero(n)

	require.NoError(vm.SetNumber(ctx, origin, 5))
	require.NoError(vm.IncreaseNumber(ctx, origin, 3))
	n, err = vm.GetNumber(ctx, addr)
	require.NoError(err)
	require.Equal(uint32(8), n)

	require.NoError(vm.DecreaseNumber(ctx, origin, 10))
	n, err = vm.GetNumber(ctx, addr)
	require.NoError(err)
	require.Equal(uint32(math.MaxUint32-1), n)

	require.NoError(vm.RemoveNumber(ctx, origin))
	n, err = vm.GetNumber(ctx, addr)
	require.NoError(err)
	require.Zero(n)

	require.Equal([]chain.Event{
		&actions.NumberStored{Value: 5, Account: addr},
		&actions.NumberChanged{Delta: 3, Account: addr},
		&actions.NumberChanged{Delta: 10, Account: addr},
		&actions.NumberFree{Account: addr},
	}, events.Events())
}

func TestUnauthorizedOrigin(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	vm, events := newTestVM(t, newTestConfig(t))

	for _, origin := range []chain.Origin{chain.Unsigned(), chain.Root(), nil} {
		require.ErrorIs(vm.SetNumber(ctx, origin, 1), chain.ErrUnauthorizedOrigin)
		require.ErrorIs(vm.RemoveNumber(ctx, origin), chain.ErrUnauthorizedOrigin)
		require.ErrorIs(vm.IncreaseNumber(ctx, origin, 1), chain.ErrUnauthorizedOrigin)
		require.ErrorIs(vm.DecreaseNumber(ctx, origin, 1), chain.ErrUnauthorizedOrigin)
	}
	require.Empty(events.Events())
}

func TestSubscriberReadsNumber(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	vm, _ := newTestVM(t, newTestConfig(t))
	addr := newAddress()

	numbers := make(chan uint32, 2)
	vm.Subscribe(event.SubscriptionFunc[chain.Event]{
		AcceptF: func(ctx context.Context, e chain.Event) error {
			n, err := vm.GetNumber(ctx, e.Owner())
			if err != nil {
				return err
			}
			numbers <- n
			return nil
		},
	})

	done := make(chan error, 1)
	go func() {
		if err := vm.SetNumber(ctx, chain.Signed(addr), 4); err != nil {
			done <- err
			return
		}
		done <- vm.IncreaseNumber(ctx, chain.Signed(addr), 2)
	}()

	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(5 * time.Second):
		require.FailNow("operation blocked on its subscriber")
	}
	require.Equal(uint32(4), <-numbers)
	require.Equal(uint32(6), <-numbers)
}

func TestCheckedPolicy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cfg, err := config.New([]byte("arithmeticPolicy: checked"))
	require.NoError(err)
	cfg.HTTPAddress = "127.0.0.1:0"
	vm, events := newTestVM(t, cfg)

	addr := newAddress()
	origin := chain.Signed(addr)
	require.NoError(vm.SetNumber(ctx, origin, math.MaxUint32))
	require.ErrorIs(vm.IncreaseNumber(ctx, origin, 1), chain.ErrStorageOverflow)

	n, err := vm.GetNumber(ctx, addr)
	require.NoError(err)
	require.Equal(uint32(math.MaxUint32), n)
	require.Len(events.Events(), 1)
}

func TestPersistence(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cfg := newTestConfig(t)
	cfg.DatabaseDirectory = t.TempDir()
	addr := newAddress()

	vm, err := New(ctx, cfg, logging.NoLog{})
	require.NoError(err)
	require.NoError(vm.SetNumber(ctx, chain.Signed(addr), 9))
	require.NoError(vm.Close())

	vm, _ = newTestVM(t, cfg)
	n, err := vm.GetNumber(ctx, addr)
	require.NoError(err)
	require.Equal(uint32(9), n)
}

func TestRun(t *testing.T) {
	require := require.New(t)

	vm, _ := newTestVM(t, newTestConfig(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- vm.Run(ctx)
	}()

	uri := "http://" + vm.Addr().String()
	cli := jsonrpc.NewJSONRPCClient(uri)
	require.Eventually(func() bool {
		ok, err := cli.Ping(ctx)
		return err == nil && ok
	}, 5*time.Second, 10*time.Millisecond)

	pk, err := auth.GeneratePrivateKey(auth.ED25519Key)
	require.NoError(err)
	factory, err := auth.GetFactory(pk)
	require.NoError(err)

	tx, err := cli.GenerateTransaction(ctx, vm.Parser(), &actions.SetNumber{Value: 42}, factory)
	require.NoError(err)
	_, err = cli.SubmitTx(ctx, tx.Bytes())
	require.NoError(err)

	n, err := cli.Number(ctx, factory.Address())
	require.NoError(err)
	require.Equal(uint32(42), n)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+MetricsEndpoint, nil)
	require.NoError(err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Contains(string(body), "chain_txs_submitted")

	cancel()
	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(10 * time.Second):
		require.FailNow("vm did not stop")
	}
}
