// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/freyrlabs/freyr/freyr"
)

// Key is the mapping key constraint.
type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for ledger contracts, similar to
// a mapping in Solidity. Entry positions are derived from the key hashed with
// the mapping's base position; values are rlp encoded.
type Mapping[K Key, V any] struct {
	ctx     *Context
	basePos freyr.Bytes32
}

// NewMapping creates a mapping rooted at the given base position.
func NewMapping[K Key, V any](ctx *Context, basePos freyr.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{ctx: ctx, basePos: basePos}
}

func (m *Mapping[K, V]) position(key K) freyr.Bytes32 {
	return freyr.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get reads the entry for key. A missing entry reads as V's zero value, with
// pointer kinds allocated so the caller never sees a nil dereference.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.ctx.state.DecodeStorage(m.ctx.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set writes the entry for key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.ctx.state.EncodeStorage(m.ctx.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Clear removes the entry for key, releasing its slot.
func (m *Mapping[K, V]) Clear(key K) {
	m.ctx.state.SetRawStorage(m.ctx.address, m.position(key), nil)
}

// Has reports whether an entry occupies the key's slot.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	raw, err := m.ctx.state.GetRawStorage(m.ctx.address, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}
