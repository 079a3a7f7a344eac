// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package memdb provides an in-memory kv store backed by leveldb's memory storage.
package memdb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/freyrlabs/freyr/kv"
)

var (
	writeOpt = &opt.WriteOptions{}
	readOpt  = &opt.ReadOptions{}
)

var _ kv.Store = (*MemDB)(nil)

// MemDB wraps an in-memory leveldb instance.
type MemDB struct {
	db *leveldb.DB
}

// New creates an in-memory kv store.
func New() (*MemDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), &opt.Options{
		BlockCacheCapacity: 8 * opt.MiB,
		WriteBuffer:        4 * opt.MiB,
		Filter:             filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open mem db")
	}
	return &MemDB{db: db}, nil
}

// IsNotFound checks whether the error returned by Get means key not found.
func (m *MemDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get retrieves the value for the given key.
func (m *MemDB) Get(key []byte) ([]byte, error) {
	return m.db.Get(key, readOpt)
}

// Has returns whether a key exists.
func (m *MemDB) Has(key []byte) (bool, error) {
	return m.db.Has(key, readOpt)
}

// Put saves the value for the given key.
func (m *MemDB) Put(key, val []byte) error {
	return m.db.Put(key, val, writeOpt)
}

// Delete deletes the given key and its value.
func (m *MemDB) Delete(key []byte) error {
	return m.db.Delete(key, writeOpt)
}

// Close closes the store. Later operations will all fail.
func (m *MemDB) Close() error {
	return m.db.Close()
}

// NewBatch creates a batch for writing ops.
func (m *MemDB) NewBatch() kv.Batch {
	return &memBatch{m.db, &leveldb.Batch{}}
}

// NewIterator creates an iterator over the key range.
func (m *MemDB) NewIterator(r kv.Range) kv.Iterator {
	return m.db.NewIterator(&util.Range{
		Start: r.Start,
		Limit: r.Limit,
	}, readOpt)
}

type memBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *memBatch) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *memBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *memBatch) Len() int {
	return b.batch.Len()
}

func (b *memBatch) Write() error {
	return b.db.Write(b.batch, writeOpt)
}
