// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"errors"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
)

const (
	EventMode byte = 0
	TxMode    byte = 1
)

const maxErrorSize = 1024

// packTxMessage packs a txID and the outcome of its execution. A nil
// [result] indicates the transaction was applied.
func packTxMessage(txID ids.ID, result error) []byte {
	var errBytes []byte
	if result != nil {
		errBytes = []byte(result.Error())
		if len(errBytes) > maxErrorSize {
			errBytes = errBytes[:maxErrorSize]
		}
	}
	size := ids.IDLen + consts.BoolLen + codec.BytesLen(errBytes)
	p := codec.NewWriter(size, size)
	p.PackID(txID)
	p.PackBool(result == nil)
	p.PackBytes(errBytes)
	return p.Bytes()
}

// unpackTxMessage returns the txID and the error the server reported for
// it, if any.
func unpackTxMessage(msg []byte) (ids.ID, error, error) {
	p := codec.NewReader(msg, consts.NetworkSizeLimit)
	var txID ids.ID
	p.UnpackID(true, &txID)
	success := p.UnpackBool()
	var errBytes []byte
	p.UnpackBytes(maxErrorSize, false, &errBytes)
	if err := p.Err(); err != nil {
		return ids.Empty, nil, err
	}
	if !p.Empty() {
		return ids.Empty, nil, ErrUnexpectedBytes
	}
	if success {
		return txID, nil, nil
	}
	return txID, errors.New(string(errBytes)), nil
}

// packEventRegistration requests events for [addr], or for every account
// when [addr] is nil.
func packEventRegistration(addr *codec.Address) []byte {
	if addr == nil {
		return []byte{EventMode}
	}
	p := codec.NewWriter(consts.ByteLen+codec.AddressLen, consts.ByteLen+codec.AddressLen)
	p.PackByte(EventMode)
	p.PackAddress(*addr)
	return p.Bytes()
}

func unpackEventRegistration(msg []byte) (codec.Address, bool, error) {
	if len(msg) == 0 {
		return codec.EmptyAddress, false, nil
	}
	p := codec.NewReader(msg, codec.AddressLen)
	var addr codec.Address
	p.UnpackAddress(&addr)
	if err := p.Err(); err != nil {
		return codec.EmptyAddress, false, err
	}
	if !p.Empty() {
		return codec.EmptyAddress, false, ErrUnexpectedBytes
	}
	return addr, true, nil
}
