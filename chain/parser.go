// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
)

// Parser holds the registries used to decode actions, auths and events.
type Parser struct {
	actions *codec.TypeParser[Action]
	auths   *codec.TypeParser[Auth]
	events  *codec.TypeParser[Event]
}

func NewParser() *Parser {
	return &Parser{
		actions: codec.NewTypeParser[Action](),
		auths:   codec.NewTypeParser[Auth](),
		events:  codec.NewTypeParser[Event](),
	}
}

func (p *Parser) Actions() *codec.TypeParser[Action] { return p.actions }

func (p *Parser) Auths() *codec.TypeParser[Auth] { return p.auths }

func (p *Parser) Events() *codec.TypeParser[Event] { return p.events }

// ParseTx decodes a single transaction and rejects trailing bytes.
func (p *Parser) ParseTx(b []byte) (*Transaction, error) {
	r := codec.NewReader(b, consts.NetworkSizeLimit)
	tx, err := UnmarshalTx(r, p)
	if err != nil {
		return nil, err
	}
	if !r.Empty() {
		return nil, ErrInvalidObject
	}
	return tx, nil
}

// MarshalEvent encodes [e] behind its type id.
func MarshalEvent(e Event) ([]byte, error) {
	p := codec.NewWriter(consts.ByteLen+e.Size(), consts.NetworkSizeLimit)
	p.PackByte(e.GetTypeID())
	e.Marshal(p)
	return p.Bytes(), p.Err()
}

// ParseEvent decodes an event encoded with [MarshalEvent].
func (p *Parser) ParseEvent(b []byte) (Event, error) {
	r := codec.NewReader(b, consts.NetworkSizeLimit)
	typeID := r.UnpackByte()
	if err := r.Err(); err != nil {
		return nil, err
	}
	unmarshal, ok := p.events.LookupIndex(typeID)
	if !ok {
		return nil, ErrInvalidObject
	}
	e, err := unmarshal(r)
	if err != nil {
		return nil, err
	}
	if !r.Empty() {
		return nil, ErrInvalidObject
	}
	return e, r.Err()
}
