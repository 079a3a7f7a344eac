// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides an LRU cache with single-caller load-through.
package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU extends golang-lru with load-through reads.
type LRU struct {
	*lru.Cache
	stats Stats
}

// NewLRU creates an LRU cache holding at most maxSize entries.
// maxSize should be > 0, or an error is returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache}, nil
}

// Loader loads the value of key on a cache miss.
type Loader func(key any) (any, error)

// GetOrLoad returns the cached value of key, invoking loader on a miss and
// caching its result.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.stats.Hit()
		return v, nil
	}
	l.stats.Miss()
	v, err := loader(key)
	if err != nil {
		return nil, err
	}

	l.Add(key, v)
	return v, nil
}

// Stats returns hit/miss counts since creation.
func (l *LRU) Stats() (hit, miss int64) {
	return l.stats.Load()
}
