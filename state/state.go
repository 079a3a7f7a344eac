// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger's storage state with checkpoint-revert semantics.
package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/kv"
	"github.com/freyrlabs/freyr/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr freyr.Address
	key  freyr.Bytes32
}

// State manages contract storage over a kv store.
// Writes stay in a revision stack until Commit flushes them to the store;
// reads fall through to the store for keys never written in this instance.
type State struct {
	store kv.Store
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New creates a state instance over the given store.
func New(store kv.Store) *State {
	state := State{store: store}
	state.sm = stackedmap.New(func(k storageKey) (rlp.RawValue, bool, error) {
		data, err := store.Get(makeStoreKey(k))
		if err != nil {
			if store.IsNotFound(err) {
				// the empty raw value stands for an absent slot
				return nil, true, nil
			}
			return nil, false, err
		}
		return data, true, nil
	})
	return &state
}

func makeStoreKey(k storageKey) []byte {
	key := make([]byte, 0, freyr.AddressLength+32)
	return append(append(key, k.addr.Bytes()...), k.key.Bytes()...)
}

// GetStorage gets storage value for the given address and key.
func (s *State) GetStorage(addr freyr.Address, key freyr.Bytes32) (freyr.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return freyr.Bytes32{}, err
	}
	if len(raw) == 0 {
		return freyr.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return freyr.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return freyr.Blake2b(raw), nil
	}
	return freyr.BytesToBytes32(content), nil
}

// SetStorage sets storage value for the given address and key.
func (s *State) SetStorage(addr freyr.Address, key, value freyr.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr freyr.Address, key freyr.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage sets storage value in rlp raw.
func (s *State) SetRawStorage(addr freyr.Address, key freyr.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage sets storage value encoded by the given enc method.
// An empty encoded value clears the slot.
func (s *State) EncodeStorage(addr freyr.Address, key freyr.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage gets and decodes storage value.
func (s *State) DecodeStorage(addr freyr.Address, key freyr.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit flushes all changes to the underlying store in one batch and
// resets the revision stack. Cleared slots are deleted from the store.
func (s *State) Commit() error {
	batch := s.store.NewBatch()
	var err error
	s.sm.Journal(func(k storageKey, raw rlp.RawValue) bool {
		if len(raw) == 0 {
			err = batch.Delete(makeStoreKey(k))
		} else {
			err = batch.Put(makeStoreKey(k), raw)
		}
		return err == nil
	})
	if err != nil {
		return &Error{err}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	s.sm.PopTo(0)
	return nil
}
