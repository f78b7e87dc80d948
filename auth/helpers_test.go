// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"

	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/state"
)

type noopAction struct{}

func (*noopAction) GetTypeID() uint8 { return 0 }

func (*noopAction) StateKeys(codec.Address) state.Keys { return state.Keys{} }

func (*noopAction) Execute(context.Context, chain.Rules, state.Mutable, codec.Address) (chain.Event, error) {
	return nil, nil
}

func (*noopAction) Size() int { return 0 }

func (*noopAction) Marshal(*codec.Packer) {}

func unmarshalNoopAction(p *codec.Packer) (chain.Action, error) {
	return &noopAction{}, p.Err()
}
