// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/keys"
	"github.com/ava-labs/numbervm/state"
)

type ReadState func(context.Context, [][]byte) ([][]byte, []error)

// State
// 0x0/ (number)
//   -> [account] => number

const numberPrefix byte = 0x0

const NumberChunks uint16 = 1

// [numberPrefix] + [address] + [chunks]
func NumberKey(addr codec.Address) []byte {
	k := make([]byte, consts.ByteLen+codec.AddressLen)
	k[0] = numberPrefix
	copy(k[1:], addr[:])
	return []byte(keys.EncodeChunks(string(k), NumberChunks))
}

// GetNumber returns the number stored for [addr]. Accounts without an
// entry hold 0.
func GetNumber(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (uint32, error) {
	n, _, err := innerGetNumber(im.GetValue(ctx, NumberKey(addr)))
	return n, err
}

// GetNumberFromState is used to serve RPC queries.
func GetNumberFromState(
	ctx context.Context,
	f ReadState,
	addr codec.Address,
) (uint32, error) {
	values, errs := f(ctx, [][]byte{NumberKey(addr)})
	n, _, err := innerGetNumber(values[0], errs[0])
	return n, err
}

func innerGetNumber(v []byte, err error) (uint32, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint32Len {
		return 0, false, fmt.Errorf("%w: length %d", ErrInvalidNumber, len(v))
	}
	return binary.BigEndian.Uint32(v), true, nil
}

// SetNumber overwrites any number stored for [addr].
func SetNumber(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	n uint32,
) error {
	k := NumberKey(addr)
	v := binary.BigEndian.AppendUint32(nil, n)
	if !keys.VerifyValue(string(k), v) {
		return fmt.Errorf("%w: value does not fit in %d chunks", ErrInvalidNumber, NumberChunks)
	}
	return mu.Insert(ctx, k, v)
}

// RemoveNumber deletes the entry for [addr]. Removing a missing entry is
// not an error.
func RemoveNumber(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
) error {
	return mu.Remove(ctx, NumberKey(addr))
}
