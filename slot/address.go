// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/freyrlabs/freyr/freyr"
)

// Address is a storage cell holding an account address.
type Address struct {
	ctx *Context
	pos freyr.Bytes32
}

// NewAddress creates a cell at the given position.
func NewAddress(ctx *Context, pos freyr.Bytes32) *Address {
	return &Address{ctx: ctx, pos: pos}
}

// Get reads the cell. An unset cell reads as the zero address.
func (a *Address) Get() (freyr.Address, error) {
	storage, err := a.ctx.state.GetStorage(a.ctx.address, a.pos)
	if err != nil {
		return freyr.Address{}, err
	}
	return freyr.BytesToAddress(storage.Bytes()), nil
}

// Set writes the cell. A nil addr clears the underlying slot.
func (a *Address) Set(addr *freyr.Address) {
	var storage freyr.Bytes32
	if addr != nil {
		storage = freyr.BytesToBytes32(addr.Bytes())
	}
	a.ctx.state.SetStorage(a.ctx.address, a.pos, storage)
}
