// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides a logical keyspace over a shared store by prefixing keys.
type Bucket string

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{string(b), src}
}

type bucketStore struct {
	prefix string
	src    Store
}

func (s *bucketStore) makeKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(s.prefix)+len(key)), s.prefix...), key...)
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.makeKey(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.makeKey(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.makeKey(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.makeKey(key)) }
func (s *bucketStore) Close() error                   { return s.src.Close() }

func (s *bucketStore) NewBatch() Batch {
	return &bucketBatch{s, s.src.NewBatch()}
}

func (s *bucketStore) NewIterator(r Range) Iterator {
	return &bucketIterator{
		prefixLen: len(s.prefix),
		it:        s.src.NewIterator(s.makeRange(r)),
	}
}

// makeRange transposes the range into the prefixed keyspace. A nil limit
// becomes the prefix's upper bound so iteration stays inside the bucket.
func (s *bucketStore) makeRange(r Range) Range {
	start := s.makeKey(r.Start)
	var limit []byte
	if r.Limit != nil {
		limit = s.makeKey(r.Limit)
	} else {
		limit = []byte(s.prefix)
		for i := len(limit) - 1; i >= 0; i-- {
			if limit[i] < 0xff {
				limit = append(limit[:i:i], limit[i]+1)
				break
			}
		}
	}
	return Range{Start: start, Limit: limit}
}

type bucketBatch struct {
	store *bucketStore
	batch Batch
}

func (b *bucketBatch) Put(key, val []byte) error { return b.batch.Put(b.store.makeKey(key), val) }
func (b *bucketBatch) Delete(key []byte) error   { return b.batch.Delete(b.store.makeKey(key)) }
func (b *bucketBatch) Len() int                  { return b.batch.Len() }
func (b *bucketBatch) Write() error              { return b.batch.Write() }

type bucketIterator struct {
	prefixLen int
	it        Iterator
}

func (i *bucketIterator) Next() bool    { return i.it.Next() }
func (i *bucketIterator) Key() []byte   { return i.it.Key()[i.prefixLen:] }
func (i *bucketIterator) Value() []byte { return i.it.Value() }
func (i *bucketIterator) Release()      { i.it.Release() }
func (i *bucketIterator) Error() error  { return i.it.Error() }
