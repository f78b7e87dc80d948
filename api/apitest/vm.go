// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package apitest

import (
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/numbervm/actions"
	"github.com/ava-labs/numbervm/api"
	"github.com/ava-labs/numbervm/auth"
	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/state"
)

var _ api.VM = (*VM)(nil)

type rules struct {
	chainID ids.ID
}

func (r *rules) GetChainID() ids.ID                        { return r.chainID }
func (*rules) GetValidityWindow() int64                    { return 60_000 }
func (*rules) GetArithmeticPolicy() chain.ArithmeticPolicy { return chain.Wrapping }

// VM serves a [chain.Processor] backed by an in-memory database.
type VM struct {
	*chain.Processor
	chainID ids.ID
}

func NewVM(t *testing.T) *VM {
	require := require.New(t)

	parser := chain.NewParser()
	require.NoError(actions.Register(parser))
	require.NoError(auth.Register(parser))

	chainID := ids.GenerateTestID()
	processor, err := chain.NewProcessor(
		logging.NoLog{},
		trace.Noop,
		&rules{chainID: chainID},
		parser,
		state.NewDatabaseStore(memdb.New()),
		prometheus.NewRegistry(),
	)
	require.NoError(err)
	return &VM{
		Processor: processor,
		chainID:   chainID,
	}
}

func (vm *VM) ChainID() ids.ID {
	return vm.chainID
}

func (*VM) Logger() logging.Logger {
	return logging.NoLog{}
}

// NewFactory generates a fresh ed25519 key.
func NewFactory(t *testing.T) chain.AuthFactory {
	pk, err := auth.GeneratePrivateKey(auth.ED25519Key)
	require.NoError(t, err)
	factory, err := auth.GetFactory(pk)
	require.NoError(t, err)
	return factory
}

// SignTx signs [action] so it is valid against [vm] for the next
// ten seconds.
func SignTx(t *testing.T, vm *VM, factory chain.AuthFactory, action chain.Action) *chain.Transaction {
	base := &chain.Base{
		Timestamp: time.Now().Add(10 * time.Second).UnixMilli(),
		ChainID:   vm.chainID,
	}
	tx, err := chain.NewTx(base, action).Sign(factory, vm.Parser())
	require.NoError(t, err)
	return tx
}
