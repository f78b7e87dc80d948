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

var _ chain.Action = (*IncreaseNumber)(nil)

// IncreaseNumber adds [Amount] to the actor's number, treating a missing entry
// as 0. The emitted [NumberChanged] carries [Amount], not the result.
type IncreaseNumber struct {
	Amount uint32 `json:"amount"`
}

func (*IncreaseNumber) GetTypeID() uint8 {
	return consts.IncreaseNumberID
}

func (*IncreaseNumber) StateKeys(actor codec.Address) state.Keys {
	return state.Keys{
		string(storage.NumberKey(actor)): state.All,
	}
}

func (a *IncreaseNumber) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) (chain.Event, error) {
	n, err := storage.GetNumber(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	updated, err := add(r.GetArithmeticPolicy(), n, a.Amount)
	if err != nil {
		return nil, err
	}
	if err := storage.SetNumber(ctx, mu, actor, updated); err != nil {
		return nil, err
	}
	return &NumberChanged{Delta: a.Amount, Account: actor}, nil
}

func (*IncreaseNumber) Size() int {
	return IncreaseNumberSize
}

func (a *IncreaseNumber) Marshal(p *codec.Packer) {
	p.PackInt(a.Amount)
}

func UnmarshalIncreaseNumber(p *codec.Packer) (chain.Action, error) {
	var a IncreaseNumber
	a.Amount = p.UnpackInt(false)
	return &a, p.Err()
}
