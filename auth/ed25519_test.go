// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/crypto"
	"github.com/ava-labs/numbervm/crypto/ed25519"
)

func TestED25519SignVerify(t *testing.T) {
	require := require.New(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	factory := NewED25519Factory(priv)
	msg := []byte("number")

	a, err := factory.Sign(msg)
	require.NoError(err)
	require.Equal(factory.Address(), a.Actor())
	require.Equal(ED25519ID, a.Actor()[0])
	require.NoError(a.Verify(context.Background(), msg))
	require.ErrorIs(a.Verify(context.Background(), []byte("other")), crypto.ErrInvalidSignature)
}

func TestED25519Marshal(t *testing.T) {
	require := require.New(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	a, err := NewED25519Factory(priv).Sign([]byte("number"))
	require.NoError(err)

	p := codec.NewWriter(a.Size(), consts.NetworkSizeLimit)
	a.Marshal(p)
	require.NoError(p.Err())
	require.Len(p.Bytes(), ED25519Size)

	parsed, err := UnmarshalED25519(codec.NewReader(p.Bytes(), consts.NetworkSizeLimit))
	require.NoError(err)
	require.Equal(a.Actor(), parsed.Actor())
	require.NoError(parsed.Verify(context.Background(), []byte("number")))

	_, err = UnmarshalED25519(codec.NewReader(p.Bytes()[:ED25519Size-1], consts.NetworkSizeLimit))
	require.Error(err)
}

func TestSignedTransaction(t *testing.T) {
	require := require.New(t)

	parser := chain.NewParser()
	require.NoError(Register(parser))
	require.NoError(parser.Actions().Register(&noopAction{}, unmarshalNoopAction))

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	factory := NewED25519Factory(priv)
	tx, err := chain.NewTx(&chain.Base{Timestamp: 1, ChainID: ids.GenerateTestID()}, &noopAction{}).Sign(factory, parser)
	require.NoError(err)

	msg, err := tx.Digest()
	require.NoError(err)
	require.NoError(tx.Auth.Verify(context.Background(), msg))
	require.Equal(factory.Address(), tx.Auth.Actor())

	// Flipping a bit in the signed payload breaks verification.
	b := append([]byte{}, tx.Bytes()...)
	b[0] ^= 0x01
	tampered, err := parser.ParseTx(b)
	require.NoError(err)
	msg, err = tampered.Digest()
	require.NoError(err)
	require.ErrorIs(tampered.Auth.Verify(context.Background(), msg), crypto.ErrInvalidSignature)
}

func TestPrivateKeyFile(t *testing.T) {
	require := require.New(t)

	pk, err := GeneratePrivateKey(ED25519Key)
	require.NoError(err)
	path := filepath.Join(t.TempDir(), "key.hex")
	require.NoError(SavePrivateKey(path, pk))

	loaded, err := ReadPrivateKey(ED25519Key, path)
	require.NoError(err)
	require.Equal(pk, loaded)

	factory, err := GetFactory(loaded)
	require.NoError(err)
	require.Equal(pk.Address, factory.Address())
}

func TestKeyErrors(t *testing.T) {
	require := require.New(t)

	_, err := GeneratePrivateKey("rsa")
	require.ErrorIs(err, ErrInvalidKeyType)
	_, err = LoadPrivateKey("rsa", "00")
	require.ErrorIs(err, ErrInvalidKeyType)
	_, err = LoadPrivateKey(ED25519Key, "zz")
	require.ErrorIs(err, crypto.ErrInvalidPrivateKey)
	_, err = GetFactory(&PrivateKey{Address: codec.CreateAddress(7, ids.Empty)})
	require.ErrorIs(err, ErrInvalidKeyType)
	_, err = GetFactory(&PrivateKey{Address: codec.CreateAddress(ED25519ID, ids.Empty), Bytes: []byte{1}})
	require.ErrorIs(err, ErrInvalidPrivateKeySize)
}
