// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import "errors"

var (
	ErrClosed          = errors.New("closed")
	ErrUnexpectedBytes = errors.New("unexpected bytes")
	ErrUnexpectedMode  = errors.New("unexpected message mode")
)
