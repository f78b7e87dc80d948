// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"

	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/crypto/ed25519"
)

var (
	// ErrInvalidKeyType is returned when an invalid key type is provided
	ErrInvalidKeyType        = errors.New("invalid key type")
	ErrInvalidPrivateKeySize = errors.New("invalid private key size")
)

// PrivateKey pairs raw key bytes with the account they control.
type PrivateKey struct {
	Address codec.Address
	Bytes   []byte
}

// GetFactory returns the [chain.AuthFactory] for a given private key.
func GetFactory(pk *PrivateKey) (chain.AuthFactory, error) {
	switch pk.Address[0] {
	case ED25519ID:
		if len(pk.Bytes) != ed25519.PrivateKeyLen {
			return nil, ErrInvalidPrivateKeySize
		}
		return NewED25519Factory(ed25519.PrivateKey(pk.Bytes)), nil
	default:
		return nil, ErrInvalidKeyType
	}
}

// GeneratePrivateKey creates a key of [keyType].
func GeneratePrivateKey(keyType string) (*PrivateKey, error) {
	switch keyType {
	case ED25519Key:
		p, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		return &PrivateKey{
			Address: NewED25519Address(p.PublicKey()),
			Bytes:   p[:],
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidKeyType, keyType)
	}
}

// LoadPrivateKey parses a hex encoded key of [keyType].
func LoadPrivateKey(keyType string, s string) (*PrivateKey, error) {
	switch keyType {
	case ED25519Key:
		p, err := ed25519.PrivateKeyFromHex(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		return &PrivateKey{
			Address: NewED25519Address(p.PublicKey()),
			Bytes:   p[:],
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidKeyType, keyType)
	}
}

// SavePrivateKey writes [pk] as hex to [path], readable only by the owner.
func SavePrivateKey(path string, pk *PrivateKey) error {
	return os.WriteFile(path, []byte(codec.ToHex(pk.Bytes)), perms.ReadWrite)
}

// ReadPrivateKey loads a key written by [SavePrivateKey].
func ReadPrivateKey(keyType string, path string) (*PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadPrivateKey(keyType, string(b))
}
