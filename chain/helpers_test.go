// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/state"
)

var (
	_ Rules       = (*testRules)(nil)
	_ Action      = (*storeAction)(nil)
	_ Event       = (*storedEvent)(nil)
	_ Auth        = (*testAuth)(nil)
	_ AuthFactory = (*testFactory)(nil)

	errBadSignature = errors.New("bad signature")
	errStoreFailed  = errors.New("store failed")

	testChainID = ids.GenerateTestID()
)

type testRules struct {
	chainID ids.ID
	window  int64
	policy  ArithmeticPolicy
}

func newTestRules() *testRules {
	return &testRules{chainID: testChainID, window: 60_000}
}

func (r *testRules) GetChainID() ids.ID                    { return r.chainID }
func (r *testRules) GetValidityWindow() int64              { return r.window }
func (r *testRules) GetArithmeticPolicy() ArithmeticPolicy { return r.policy }

func storeKey(actor codec.Address) []byte {
	return append([]byte{0xff}, actor[:]...)
}

// storeAction writes a single byte under the actor's key. A value of 0
// fails after the write to prove the view is discarded.
type storeAction struct {
	Value uint8
}

func (*storeAction) GetTypeID() uint8 { return 0 }

func (*storeAction) StateKeys(actor codec.Address) state.Keys {
	return state.Keys{string(storeKey(actor)): state.All}
}

func (s *storeAction) Execute(ctx context.Context, _ Rules, mu state.Mutable, actor codec.Address) (Event, error) {
	if err := mu.Insert(ctx, storeKey(actor), []byte{s.Value}); err != nil {
		return nil, err
	}
	if s.Value == 0 {
		return nil, errStoreFailed
	}
	return &storedEvent{Value: s.Value, Actor: actor}, nil
}

func (*storeAction) Size() int { return consts.ByteLen }

func (s *storeAction) Marshal(p *codec.Packer) { p.PackByte(s.Value) }

func unmarshalStoreAction(p *codec.Packer) (Action, error) {
	return &storeAction{Value: p.UnpackByte()}, p.Err()
}

type storedEvent struct {
	Value uint8
	Actor codec.Address
}

func (*storedEvent) GetTypeID() uint8 { return 0 }

func (e *storedEvent) Owner() codec.Address { return e.Actor }

func (*storedEvent) Size() int { return consts.ByteLen + codec.AddressLen }

func (e *storedEvent) Marshal(p *codec.Packer) {
	p.PackByte(e.Value)
	p.PackAddress(e.Actor)
}

func unmarshalStoredEvent(p *codec.Packer) (Event, error) {
	var e storedEvent
	e.Value = p.UnpackByte()
	p.UnpackAddress(&e.Actor)
	return &e, p.Err()
}

// testAuth signs by copying the digest.
type testAuth struct {
	Signer    codec.Address
	Signature []byte
}

func (*testAuth) GetTypeID() uint8 { return 0 }

func (a *testAuth) Verify(_ context.Context, msg []byte) error {
	if string(a.Signature) != string(msg) {
		return errBadSignature
	}
	return nil
}

func (a *testAuth) Actor() codec.Address { return a.Signer }

func (a *testAuth) Size() int { return codec.AddressLen + codec.BytesLen(a.Signature) }

func (a *testAuth) Marshal(p *codec.Packer) {
	p.PackAddress(a.Signer)
	p.PackBytes(a.Signature)
}

func unmarshalTestAuth(p *codec.Packer) (Auth, error) {
	var a testAuth
	p.UnpackAddress(&a.Signer)
	p.UnpackBytes(-1, true, &a.Signature)
	return &a, p.Err()
}

type testFactory struct {
	addr    codec.Address
	corrupt bool
}

func newTestFactory() *testFactory {
	return &testFactory{addr: codec.CreateAddress(0, ids.GenerateTestID())}
}

func (f *testFactory) Sign(msg []byte) (Auth, error) {
	sig := append([]byte{}, msg...)
	if f.corrupt {
		sig[0]++
	}
	return &testAuth{Signer: f.addr, Signature: sig}, nil
}

func (f *testFactory) Address() codec.Address { return f.addr }

func newTestParser() *Parser {
	p := NewParser()
	if err := p.Actions().Register(&storeAction{}, unmarshalStoreAction); err != nil {
		panic(err)
	}
	if err := p.Auths().Register(&testAuth{}, unmarshalTestAuth); err != nil {
		panic(err)
	}
	if err := p.Events().Register(&storedEvent{}, unmarshalStoredEvent); err != nil {
		panic(err)
	}
	return p
}
