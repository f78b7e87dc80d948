// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/numbervm/chain"
)

type VM interface {
	ChainID() ids.ID
	Tracer() trace.Tracer
	Logger() logging.Logger
	Parser() *chain.Parser
	Submit(ctx context.Context, tx []byte) (ids.ID, error)
	ReadState(ctx context.Context, keys [][]byte) ([][]byte, []error)
}
