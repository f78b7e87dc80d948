// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"encoding/binary"

	"github.com/ava-labs/numbervm/consts"
)

const chunkSize = 64 // bytes

// MaxChunks returns the number of value chunks [key] may hold.
func MaxChunks(key string) (uint16, bool) {
	bkey := []byte(key)
	l := len(bkey)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(bkey[l-consts.Uint16Len:]), true
}

func NumChunks(value []byte) (uint16, bool) {
	l := len(value)
	if l == 0 {
		return 0, true
	}
	raw := l/chunkSize + 1
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// VerifyValue reports whether [value] fits in the chunks declared by [key].
func VerifyValue(key string, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}

func EncodeChunks(key string, maxChunks uint16) string {
	bkey := []byte(key)
	bkey = binary.BigEndian.AppendUint16(bkey, maxChunks)
	return string(bkey)
}
