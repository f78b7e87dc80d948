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

var _ chain.Action = (*SetNumber)(nil)

// SetNumber overwrites the actor's number.
type SetNumber struct {
	Value uint32 `json:"value"`
}

func (*SetNumber) GetTypeID() uint8 {
	return consts.SetNumberID
}

func (*SetNumber) StateKeys(actor codec.Address) state.Keys {
	return state.Keys{
		string(storage.NumberKey(actor)): state.All,
	}
}

func (s *SetNumber) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) (chain.Event, error) {
	if err := storage.SetNumber(ctx, mu, actor, s.Value); err != nil {
		return nil, err
	}
	return &NumberStored{Value: s.Value, Account: actor}, nil
}

func (*SetNumber) Size() int {
	return SetNumberSize
}

func (s *SetNumber) Marshal(p *codec.Packer) {
	p.PackInt(s.Value)
}

func UnmarshalSetNumber(p *codec.Packer) (chain.Action, error) {
	var set SetNumber
	set.Value = p.UnpackInt(false)
	return &set, p.Err()
}
