// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"math/big"

	"github.com/freyrlabs/freyr/freyr"
)

// Uint256 is a storage cell holding an unsigned 256-bit integer.
// A value wider than 256 bits is truncated to fit the slot.
type Uint256 struct {
	ctx *Context
	pos freyr.Bytes32
}

// NewUint256 creates a cell at the given position.
func NewUint256(ctx *Context, pos freyr.Bytes32) *Uint256 {
	return &Uint256{ctx: ctx, pos: pos}
}

// Get reads the cell. An unset cell reads as zero.
func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.ctx.state.GetStorage(u.ctx.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

// Set writes the cell. Zero clears the underlying slot.
func (u *Uint256) Set(value *big.Int) {
	u.ctx.state.SetStorage(u.ctx.address, u.pos, freyr.BytesToBytes32(value.Bytes()))
}

// Add increments the cell by value.
func (u *Uint256) Add(value *big.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	cur.Add(cur, value)
	u.Set(cur)
	return nil
}

// Sub decrements the cell by value.
// The caller guarantees the cell holds at least value.
func (u *Uint256) Sub(value *big.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	cur.Sub(cur, value)
	u.Set(cur)
	return nil
}
