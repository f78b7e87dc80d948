// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
)

var _ Mutable = (*View)(nil)

// View buffers the changes of a single operation on top of [parent].
// Every access is checked against the declared [Keys]. Nothing reaches
// the parent until Commit is called.
type View struct {
	keys   Keys
	parent Immutable

	pending map[string]maybe.Maybe[[]byte]
}

func NewView(keys Keys, parent Immutable) *View {
	return &View{
		keys:    keys,
		parent:  parent,
		pending: make(map[string]maybe.Maybe[[]byte]),
	}
}

func (v *View) check(key []byte, perm Permissions) error {
	if !v.keys[string(key)].Has(perm) {
		return fmt.Errorf("%w: key=%x", ErrInvalidKeyOrPermission, key)
	}
	return nil
}

func (v *View) getValue(ctx context.Context, key []byte) ([]byte, error) {
	if m, ok := v.pending[string(key)]; ok {
		if m.IsNothing() {
			return nil, database.ErrNotFound
		}
		return m.Value(), nil
	}
	return v.parent.GetValue(ctx, key)
}

func (v *View) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if err := v.check(key, Read); err != nil {
		return nil, err
	}
	return v.getValue(ctx, key)
}

// Insert requires [Write] for keys that already exist and [Allocate] for
// keys that do not.
func (v *View) Insert(ctx context.Context, key []byte, value []byte) error {
	if err := v.check(key, Read); err != nil {
		return err
	}
	_, err := v.getValue(ctx, key)
	switch {
	case err == nil:
		if err := v.check(key, Write); err != nil {
			return err
		}
	case errors.Is(err, database.ErrNotFound):
		if err := v.check(key, Allocate); err != nil {
			return err
		}
	default:
		return err
	}
	v.pending[string(key)] = maybe.Some(slices.Clone(value))
	return nil
}

func (v *View) Remove(_ context.Context, key []byte) error {
	if err := v.check(key, Write); err != nil {
		return err
	}
	v.pending[string(key)] = maybe.Nothing[[]byte]()
	return nil
}

// PendingChanges returns the number of keys modified in the view.
func (v *View) PendingChanges() int {
	return len(v.pending)
}

// Commit writes the buffered changes to [mu] in sorted key order. When
// [mu] is a [Batcher] the changes are applied atomically.
func (v *View) Commit(ctx context.Context, mu Mutable) error {
	keys := maps.Keys(v.pending)
	slices.Sort(keys)

	b, ok := mu.(Batcher)
	if !ok {
		for _, k := range keys {
			m := v.pending[k]
			if m.IsNothing() {
				if err := mu.Remove(ctx, []byte(k)); err != nil {
					return err
				}
				continue
			}
			if err := mu.Insert(ctx, []byte(k), m.Value()); err != nil {
				return err
			}
		}
		clear(v.pending)
		return nil
	}

	batch := b.NewBatch()
	for _, k := range keys {
		m := v.pending[k]
		if m.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), m.Value()); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	clear(v.pending)
	return nil
}
