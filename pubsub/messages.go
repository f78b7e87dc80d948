// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
)

// CreateBatchMessage packs [msgs] into a single websocket frame.
func CreateBatchMessage(maxSize int, msgs [][]byte) ([]byte, error) {
	size := consts.IntLen
	for _, msg := range msgs {
		size += codec.BytesLen(msg)
	}
	p := codec.NewWriter(size, maxSize)
	p.PackInt(uint32(len(msgs)))
	for _, msg := range msgs {
		p.PackBytes(msg)
	}
	return p.Bytes(), p.Err()
}

// ParseBatchMessage unpacks a frame created with [CreateBatchMessage].
func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	p := codec.NewReader(msg, maxSize)
	count := p.UnpackInt(true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	msgs := make([][]byte, 0, min(int(count), len(msg)))
	for i := uint32(0); i < count; i++ {
		var next []byte
		p.UnpackBytes(maxSize, true, &next)
		if err := p.Err(); err != nil {
			return nil, err
		}
		msgs = append(msgs, next)
	}
	if !p.Empty() {
		return nil, ErrMessageTooLarge
	}
	return msgs, nil
}
