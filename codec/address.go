// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressLen is a 1 byte auth type id followed by a 32 byte id.
const AddressLen = 33

// Address identifies an account. It is used only as an equality key.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// AddressBech32 returns the bech32 encoding of [a] with human readable
// part [hrp].
func AddressBech32(hrp string, a Address) (string, error) {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}

// MustAddressBech32 panics if [a] cannot be encoded. This only happens
// when [hrp] is invalid.
func MustAddressBech32(hrp string, a Address) string {
	s, err := AddressBech32(hrp, a)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseAddressBech32 parses a bech32 encoded address and ensures it
// was encoded with [hrp].
//
// 33 bytes do not fill a whole number of 5 bit groups, so the encoding
// carries a trailing pad. The pad is dropped here and must be zero.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, data, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, fmt.Errorf("%w: expected %s but got %s", ErrIncorrectHRP, hrp, phrp)
	}
	p, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(p) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(p))
	}
	return Address(p), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	decoded, err := LoadHex(string(input), AddressLen)
	if err != nil {
		return err
	}
	copy(a[:], decoded)
	return nil
}
