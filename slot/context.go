// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slot provides typed storage cells for ledger contracts, similar to
// state variables in a smart contract. Cells of one contract share a Context
// binding them to the contract's address and state.
package slot

import (
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/state"
)

// Context binds a contract address to a state instance.
type Context struct {
	address freyr.Address
	state   *state.State
}

// NewContext creates a context for the given contract address.
func NewContext(address freyr.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

// Address returns the contract address.
func (c *Context) Address() freyr.Address {
	return c.address
}

// State returns the underlying state.
func (c *Context) State() *state.State {
	return c.state
}
