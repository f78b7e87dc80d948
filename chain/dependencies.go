// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/state"
)

type Rules interface {
	// Should almost always be constant (unless there is a fork of
	// a live network)
	GetChainID() ids.ID

	GetValidityWindow() int64 // in milliseconds

	// GetArithmeticPolicy controls what increase and decrease do when the
	// result does not fit in a uint32.
	GetArithmeticPolicy() ArithmeticPolicy
}

type Action interface {
	codec.Typed

	// StateKeys is a full enumeration of all database keys that could be touched during execution
	// of an [Action] by [actor].
	//
	// If any key is touched during execution that is not included in [StateKeys], execution will fail.
	StateKeys(actor codec.Address) state.Keys

	// Execute applies the action on behalf of [actor]. [mu] only persists
	// if Execute returns without error. The returned [Event] is emitted
	// exactly once.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		actor codec.Address,
	) (Event, error)

	// Size is the number of bytes it takes to represent this [Action]. This is used to preallocate
	// memory during encoding and to charge bandwidth fees.
	Size() int

	// Marshal encodes an [Action] as bytes.
	Marshal(p *codec.Packer)
}

// Event describes a completed transition.
type Event interface {
	codec.Typed

	// Owner is the account whose number the event is about.
	Owner() codec.Address

	Size() int
	Marshal(p *codec.Packer)
}

type Auth interface {
	codec.Typed

	// Verify checks that the auth signs [msg]. It must not read state.
	Verify(ctx context.Context, msg []byte) error

	// Actor is the subject of the [Action] signed.
	Actor() codec.Address

	// Size is the number of bytes it takes to represent this [Auth]. This is used to preallocate
	// memory during encoding and to charge bandwidth fees.
	Size() int

	// Marshal encodes an [Auth] as bytes.
	Marshal(p *codec.Packer)
}

// AuthFactory is used when building a transaction so we don't need to add
// signing functionality to the [Auth] interface itself.
type AuthFactory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}
