// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"reflect"
)

// Typed is implemented by every object that is encoded behind a 1 byte
// type prefix.
type Typed interface {
	GetTypeID() uint8
}

type decoder[T any] struct {
	name string
	f    func(*Packer) (T, error)
}

// TypeParser maps type ids to the functions that decode them.
type TypeParser[T Typed] struct {
	typeToIndex    map[string]uint8
	indexToDecoder map[uint8]decoder[T]
}

func NewTypeParser[T Typed]() *TypeParser[T] {
	return &TypeParser[T]{
		typeToIndex:    map[string]uint8{},
		indexToDecoder: map[uint8]decoder[T]{},
	}
}

// Register adds [f] as the decoder for [instance]'s type id. [instance]
// may be a nil pointer as long as GetTypeID does not dereference it.
func (p *TypeParser[T]) Register(instance T, f func(*Packer) (T, error)) error {
	k := fmt.Sprintf("%T", instance)
	if _, ok := p.typeToIndex[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, k)
	}
	index := instance.GetTypeID()
	if _, ok := p.indexToDecoder[index]; ok {
		return fmt.Errorf("%w: type id %d", ErrDuplicateItem, index)
	}
	t := reflect.TypeOf(instance)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	p.typeToIndex[k] = index
	p.indexToDecoder[index] = decoder[T]{name: t.Name(), f: f}
	return nil
}

func (p *TypeParser[T]) LookupIndex(index uint8) (func(*Packer) (T, error), bool) {
	d, ok := p.indexToDecoder[index]
	return d.f, ok
}

// Name returns the registered type name of [index] or "unknown".
func (p *TypeParser[T]) Name(index uint8) string {
	d, ok := p.indexToDecoder[index]
	if !ok {
		return "unknown"
	}
	return d.name
}
