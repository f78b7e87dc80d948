// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	// Operation
	ErrUnauthorizedOrigin = errors.New("unauthorized origin")
	// ErrNoneValue is reserved for an operation that requires an existing entry.
	ErrNoneValue       = errors.New("none value")
	ErrStorageOverflow = errors.New("storage overflow")

	// Tx
	ErrInvalidObject     = errors.New("invalid object")
	ErrInvalidActor      = errors.New("invalid actor")
	ErrInvalidChainID    = errors.New("invalid chain id")
	ErrTimestampTooLate  = errors.New("timestamp too late")
	ErrTimestampTooEarly = errors.New("timestamp too early")
	ErrDuplicateTx       = errors.New("duplicate transaction")

	// Misc
	ErrUnknownPolicy = errors.New("unknown arithmetic policy")
)
