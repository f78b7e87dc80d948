// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/ava-labs/numbervm/codec"

// Origin is the outcome of authenticating a request. It is produced by
// whoever verified the request (a signed transaction, a trusted caller)
// and consumed by [Processor.Execute].
type Origin interface {
	// Actor returns the account that issued the request and whether the
	// request was signed by it.
	Actor() (codec.Address, bool)
}

type signedOrigin codec.Address

func (s signedOrigin) Actor() (codec.Address, bool) {
	return codec.Address(s), true
}

// Signed returns the origin of a request signed by [addr].
func Signed(addr codec.Address) Origin {
	return signedOrigin(addr)
}

type unsignedOrigin struct{}

func (unsignedOrigin) Actor() (codec.Address, bool) {
	return codec.EmptyAddress, false
}

// Unsigned returns the origin of a request nobody signed.
func Unsigned() Origin {
	return unsignedOrigin{}
}

type rootOrigin struct{}

func (rootOrigin) Actor() (codec.Address, bool) {
	return codec.EmptyAddress, false
}

// Root returns the origin of a privileged request. Root is not an
// account, so it cannot own a number.
func Root() Origin {
	return rootOrigin{}
}

// EnsureSigned returns the account behind [o] or [ErrUnauthorizedOrigin].
func EnsureSigned(o Origin) (codec.Address, error) {
	if o == nil {
		return codec.EmptyAddress, ErrUnauthorizedOrigin
	}
	actor, ok := o.Actor()
	if !ok || actor == codec.EmptyAddress {
		return codec.EmptyAddress, ErrUnauthorizedOrigin
	}
	return actor, nil
}
