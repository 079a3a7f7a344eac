// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/freyr"
)

// indexKey is a set item index used as mapping key.
type indexKey uint64

func (k indexKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// AddressSet is an array-backed address set: insertion order with
// swap-with-last-and-pop removal. Membership checks and removal are O(1)
// through a reverse index; removal reorders the tail.
type AddressSet struct {
	length  *Uint256
	items   *Mapping[indexKey, freyr.Address]
	indexes *Mapping[freyr.Address, uint64] // 1-based positions, 0 means absent
}

// NewAddressSet creates a set rooted at the given base position.
func NewAddressSet(ctx *Context, basePos freyr.Bytes32) *AddressSet {
	return &AddressSet{
		length:  NewUint256(ctx, basePos),
		items:   NewMapping[indexKey, freyr.Address](ctx, freyr.Blake2b(basePos.Bytes(), []byte("items"))),
		indexes: NewMapping[freyr.Address, uint64](ctx, freyr.Blake2b(basePos.Bytes(), []byte("index"))),
	}
}

// Len returns the number of members.
func (s *AddressSet) Len() (uint64, error) {
	n, err := s.length.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Contains reports membership of addr.
func (s *AddressSet) Contains(addr freyr.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	if err != nil {
		return false, err
	}
	return idx != 0, nil
}

// Add appends addr to the set.
// It returns false if addr is already a member.
func (s *AddressSet) Add(addr freyr.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	if err != nil {
		return false, err
	}
	if idx != 0 {
		return false, nil
	}
	n, err := s.Len()
	if err != nil {
		return false, err
	}
	if err := s.items.Set(indexKey(n), addr); err != nil {
		return false, err
	}
	if err := s.indexes.Set(addr, n+1); err != nil {
		return false, err
	}
	if err := s.length.Add(big.NewInt(1)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes addr from the set by swapping the last member into its
// position and popping the tail.
// It returns false if addr is not a member.
func (s *AddressSet) Remove(addr freyr.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	if err != nil {
		return false, err
	}
	if idx == 0 {
		return false, nil
	}
	n, err := s.Len()
	if err != nil {
		return false, err
	}
	pos, last := idx-1, n-1
	if pos != last {
		lastAddr, err := s.items.Get(indexKey(last))
		if err != nil {
			return false, err
		}
		if err := s.items.Set(indexKey(pos), lastAddr); err != nil {
			return false, err
		}
		if err := s.indexes.Set(lastAddr, idx); err != nil {
			return false, err
		}
	}
	s.items.Clear(indexKey(last))
	s.indexes.Clear(addr)
	if err := s.length.Sub(big.NewInt(1)); err != nil {
		return false, err
	}
	return true, nil
}

// At returns the member at position i in current set order.
func (s *AddressSet) At(i uint64) (freyr.Address, error) {
	n, err := s.Len()
	if err != nil {
		return freyr.Address{}, err
	}
	if i >= n {
		return freyr.Address{}, errors.Errorf("set index %d out of range %d", i, n)
	}
	return s.items.Get(indexKey(i))
}

// All returns a snapshot of members in current set order.
func (s *AddressSet) All() ([]freyr.Address, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	members := make([]freyr.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		addr, err := s.items.Get(indexKey(i))
		if err != nil {
			return nil, err
		}
		members = append(members, addr)
	}
	return members, nil
}
