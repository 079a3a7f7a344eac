// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis seeds ledger state: the farm parameters and the initial
// token allocations.
package genesis

import (
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/state"
)

// Genesis is a named, identified state seed.
type Genesis struct {
	builder *Builder
	id      freyr.Bytes32
	name    string
}

// Build seeds the given state and commits it.
func (g *Genesis) Build(st *state.State) error {
	return g.builder.Build(st)
}

// ID returns the fingerprint of the seeded state. Two ledgers share history
// only if their genesis IDs match.
func (g *Genesis) ID() freyr.Bytes32 {
	return g.id
}

// Name returns the network name.
func (g *Genesis) Name() string {
	return g.name
}
