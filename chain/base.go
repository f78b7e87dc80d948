// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
)

const BaseSize = consts.Uint64Len + consts.IDLen

type Base struct {
	// Timestamp is the expiry of the transaction (inclusive) in milliseconds.
	// Once this time passes it is safe to regenerate the transaction.
	Timestamp int64 `json:"timestamp"`

	// ChainID protects against replay attacks on different VM instances.
	ChainID ids.ID `json:"chainId"`
}

// Execute checks that the transaction may be processed at [timestamp].
func (b *Base) Execute(r Rules, timestamp int64) error {
	switch {
	case b.Timestamp < timestamp: // tx: 100 now: 110
		return ErrTimestampTooLate
	case b.Timestamp > timestamp+r.GetValidityWindow(): // tx: 100 now: 10
		return ErrTimestampTooEarly
	case b.ChainID != r.GetChainID():
		return ErrInvalidChainID
	default:
		return nil
	}
}

func (*Base) Size() int {
	return BaseSize
}

func (b *Base) Marshal(p *codec.Packer) {
	p.PackInt64(b.Timestamp)
	p.PackID(b.ChainID)
}

func UnmarshalBase(p *codec.Packer) (*Base, error) {
	var base Base
	base.Timestamp = p.UnpackInt64(true)
	p.UnpackID(true, &base.ChainID)
	return &base, p.Err()
}
