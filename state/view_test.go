// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
)

var (
	testKey   = []byte("key")
	testValue = []byte("value")

	errWriteFailed = errors.New("write failed")
)

// failingDatabase accepts batches but never writes them.
type failingDatabase struct {
	*memdb.Database
}

func (f failingDatabase) NewBatch() database.Batch {
	return failingBatch{Batch: f.Database.NewBatch()}
}

type failingBatch struct {
	database.Batch
}

func (failingBatch) Write() error {
	return errWriteFailed
}

func TestViewPermissions(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name        string
		permission  Permissions
		existing    bool
		op          func(*View) error
		expectedErr error
	}{
		{
			name:        "read without permission",
			permission:  None,
			op:          func(v *View) error { _, err := v.GetValue(ctx, testKey); return err },
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:        "read missing key",
			permission:  Read,
			op:          func(v *View) error { _, err := v.GetValue(ctx, testKey); return err },
			expectedErr: database.ErrNotFound,
		},
		{
			name:        "allocate without permission",
			permission:  Write,
			op:          func(v *View) error { return v.Insert(ctx, testKey, testValue) },
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:       "allocate",
			permission: Allocate,
			op:         func(v *View) error { return v.Insert(ctx, testKey, testValue) },
		},
		{
			name:        "overwrite without write",
			permission:  Allocate,
			existing:    true,
			op:          func(v *View) error { return v.Insert(ctx, testKey, testValue) },
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:       "overwrite",
			permission: Write,
			existing:   true,
			op:         func(v *View) error { return v.Insert(ctx, testKey, testValue) },
		},
		{
			name:        "remove without write",
			permission:  Read,
			existing:    true,
			op:          func(v *View) error { return v.Remove(ctx, testKey) },
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:       "remove",
			permission: Write,
			existing:   true,
			op:         func(v *View) error { return v.Remove(ctx, testKey) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			store := NewDatabaseStore(memdb.New())
			if tt.existing {
				require.NoError(store.Insert(ctx, testKey, []byte("old")))
			}
			v := NewView(Keys{string(testKey): tt.permission}, store)
			require.ErrorIs(tt.op(v), tt.expectedErr)
		})
	}
}

func TestViewCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := NewDatabaseStore(memdb.New())
	require.NoError(store.Insert(ctx, []byte("a"), []byte("1")))

	v := NewView(Keys{"a": All, "b": All}, store)
	require.NoError(v.Remove(ctx, []byte("a")))
	require.NoError(v.Insert(ctx, []byte("b"), []byte("2")))
	require.Equal(2, v.PendingChanges())

	// Changes are visible through the view only
	_, err := v.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)
	val, err := store.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), val)
	_, err = store.GetValue(ctx, []byte("b"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(v.Commit(ctx, store))
	require.Zero(v.PendingChanges())

	_, err = store.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)
	val, err = store.GetValue(ctx, []byte("b"))
	require.NoError(err)
	require.Equal([]byte("2"), val)
}

func TestViewDiscard(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := NewDatabaseStore(memdb.New())
	v := NewView(Keys{string(testKey): All}, store)
	require.NoError(v.Insert(ctx, testKey, testValue))

	// Dropping the view leaves the parent untouched
	_, err := store.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestViewCommitAtomic(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := NewDatabaseStore(failingDatabase{Database: memdb.New()})
	require.NoError(store.Insert(ctx, []byte("a"), []byte("1")))

	v := NewView(Keys{"a": All, "b": All}, store)
	require.NoError(v.Remove(ctx, []byte("a")))
	require.NoError(v.Insert(ctx, []byte("b"), []byte("2")))
	require.ErrorIs(v.Commit(ctx, store), errWriteFailed)

	// A failed write applies none of the changes
	val, err := store.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), val)
	_, err = store.GetValue(ctx, []byte("b"))
	require.ErrorIs(err, database.ErrNotFound)
	require.Equal(2, v.PendingChanges())
}

func TestViewCommitIntoView(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := NewDatabaseStore(memdb.New())
	parent := NewView(Keys{string(testKey): All}, store)
	child := NewView(Keys{string(testKey): All}, parent)
	require.NoError(child.Insert(ctx, testKey, testValue))
	require.NoError(child.Commit(ctx, parent))
	require.Equal(1, parent.PendingChanges())

	val, err := parent.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testValue, val)
	_, err = store.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
}
