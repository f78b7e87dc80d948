// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
)

var (
	_ chain.Event = (*NumberStored)(nil)
	_ chain.Event = (*NumberChanged)(nil)
	_ chain.Event = (*NumberFree)(nil)
)

// NumberStored is emitted by [SetNumber].
type NumberStored struct {
	Value   uint32        `json:"value"`
	Account codec.Address `json:"account"`
}

func (*NumberStored) GetTypeID() uint8 {
	return consts.NumberStoredID
}

func (e *NumberStored) Owner() codec.Address {
	return e.Account
}

func (*NumberStored) Size() int {
	return consts.Uint32Len + codec.AddressLen
}

func (e *NumberStored) Marshal(p *codec.Packer) {
	p.PackInt(e.Value)
	p.PackAddress(e.Account)
}

func UnmarshalNumberStored(p *codec.Packer) (chain.Event, error) {
	var e NumberStored
	e.Value = p.UnpackInt(false)
	p.UnpackAddress(&e.Account)
	return &e, p.Err()
}

// NumberChanged is emitted by [IncreaseNumber] and [DecreaseNumber].
// Delta is the requested amount, never the resulting number.
type NumberChanged struct {
	Delta   uint32        `json:"delta"`
	Account codec.Address `json:"account"`
}

func (*NumberChanged) GetTypeID() uint8 {
	return consts.NumberChangedID
}

func (e *NumberChanged) Owner() codec.Address {
	return e.Account
}

func (*NumberChanged) Size() int {
	return consts.Uint32Len + codec.AddressLen
}

func (e *NumberChanged) Marshal(p *codec.Packer) {
	p.PackInt(e.Delta)
	p.PackAddress(e.Account)
}

func UnmarshalNumberChanged(p *codec.Packer) (chain.Event, error) {
	var e NumberChanged
	e.Delta = p.UnpackInt(false)
	p.UnpackAddress(&e.Account)
	return &e, p.Err()
}

// NumberFree is emitted by [RemoveNumber].
type NumberFree struct {
	Account codec.Address `json:"account"`
}

func (*NumberFree) GetTypeID() uint8 {
	return consts.NumberFreeID
}

func (e *NumberFree) Owner() codec.Address {
	return e.Account
}

func (*NumberFree) Size() int {
	return codec.AddressLen
}

func (e *NumberFree) Marshal(p *codec.Packer) {
	p.PackAddress(e.Account)
}

func UnmarshalNumberFree(p *codec.Packer) (chain.Event, error) {
	var e NumberFree
	p.UnpackAddress(&e.Account)
	return &e, p.Err()
}
