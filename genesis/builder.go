// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/kv"
	"github.com/freyrlabs/freyr/memdb"
	"github.com/freyrlabs/freyr/state"
)

// Builder helper to seed genesis state.
type Builder struct {
	stateProcs []func(st *state.State) error
	extraData  []byte
}

// State adds a state process.
func (b *Builder) State(proc func(st *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ExtraData sets extra data, which is folded into the genesis ID.
func (b *Builder) ExtraData(data []byte) *Builder {
	b.extraData = data
	return b
}

// Build seeds state according to presets and commits it.
func (b *Builder) Build(st *state.State) error {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return errors.Wrap(err, "state process")
		}
	}
	return errors.Wrap(st.Commit(), "commit state")
}

// ComputeID builds the seed into a throwaway store and fingerprints the
// resulting pairs, in key order.
func (b *Builder) ComputeID() (freyr.Bytes32, error) {
	db, err := memdb.New()
	if err != nil {
		return freyr.Bytes32{}, err
	}
	defer db.Close()

	if err := b.Build(state.New(db)); err != nil {
		return freyr.Bytes32{}, err
	}

	hasher := freyr.NewBlake2b()
	hasher.Write(b.extraData)

	iter := db.NewIterator(kv.Range{})
	defer iter.Release()
	for iter.Next() {
		hasher.Write(iter.Key())
		hasher.Write(iter.Value())
	}
	if err := iter.Error(); err != nil {
		return freyr.Bytes32{}, err
	}
	return freyr.BytesToBytes32(hasher.Sum(nil)), nil
}
