// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Mutable = (*DatabaseStore)(nil)
	_ Batcher = (*DatabaseStore)(nil)
)

// Database is a key-value database that can group writes. Both
// avalanchego's memdb and our pebble database satisfy it.
type Database interface {
	database.KeyValueReaderWriterDeleter
	database.Batcher
}

// DatabaseStore exposes a [Database] as [Mutable].
type DatabaseStore struct {
	db Database
}

func NewDatabaseStore(db Database) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return d.db.Get(key)
}

func (d *DatabaseStore) Insert(_ context.Context, key []byte, value []byte) error {
	return d.db.Put(key, value)
}

// Remove is a no-op for missing keys, matching avalanchego database semantics.
func (d *DatabaseStore) Remove(_ context.Context, key []byte) error {
	return d.db.Delete(key)
}

func (d *DatabaseStore) NewBatch() database.Batch {
	return d.db.NewBatch()
}
