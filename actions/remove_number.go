// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/state"
	"github.com/ava-labs/numbervm/storage"
)

var _ chain.Action = (*RemoveNumber)(nil)

// RemoveNumber deletes the actor's entry. Removing a missing entry still
// succeeds and still emits [NumberFree].
type RemoveNumber struct{}

func (*RemoveNumber) GetTypeID() uint8 {
	return consts.RemoveNumberID
}

func (*RemoveNumber) StateKeys(actor codec.Address) state.Keys {
	return state.Keys{
		string(storage.NumberKey(actor)): state.Write,
	}
}

func (*RemoveNumber) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) (chain.Event, error) {
	if err := storage.RemoveNumber(ctx, mu, actor); err != nil {
		return nil, err
	}
	return &NumberFree{Account: actor}, nil
}

func (*RemoveNumber) Size() int {
	return RemoveNumberSize
}

func (*RemoveNumber) Marshal(*codec.Packer) {}

func UnmarshalRemoveNumber(p *codec.Packer) (chain.Action, error) {
	return &RemoveNumber{}, p.Err()
}
