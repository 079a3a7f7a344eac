// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds ready-to-use ledgers for tests.
package testledger

import (
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/genesis"
	"github.com/freyrlabs/freyr/logdb"
	"github.com/freyrlabs/freyr/memdb"
	"github.com/freyrlabs/freyr/runtime"
	"github.com/freyrlabs/freyr/state"
)

// Ledger bundles a runtime with its backing stores and genesis preset.
type Ledger struct {
	db      *memdb.MemDB
	logDB   *logdb.LogDB
	genesis *genesis.Genesis
	rt      *runtime.Runtime
}

// NewDefault builds a ledger seeded with the devnet genesis: funded dev
// accounts whose stake is pre-approved to the farm.
func NewDefault() (*Ledger, error) {
	return New(genesis.NewDevnet())
}

// New builds a ledger from the given genesis preset over in-memory stores.
func New(gene *genesis.Genesis) (*Ledger, error) {
	db, err := memdb.New()
	if err != nil {
		return nil, errors.Wrap(err, "open state store")
	}

	st := state.New(db)
	if err := gene.Build(st); err != nil {
		return nil, errors.Wrap(err, "build genesis state")
	}

	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, errors.Wrap(err, "open log store")
	}

	rt, err := runtime.New(st, logDB)
	if err != nil {
		return nil, errors.Wrap(err, "open runtime")
	}

	return &Ledger{
		db:      db,
		logDB:   logDB,
		genesis: gene,
		rt:      rt,
	}, nil
}

// Runtime returns the ledger runtime.
func (l *Ledger) Runtime() *runtime.Runtime {
	return l.rt
}

// LogDB returns the in-memory log store.
func (l *Ledger) LogDB() *logdb.LogDB {
	return l.logDB
}

// Genesis returns the genesis preset the ledger was built from.
func (l *Ledger) Genesis() *genesis.Genesis {
	return l.genesis
}

// Close releases the backing stores.
func (l *Ledger) Close() {
	l.logDB.Close()
	_ = l.db.Close()
}
