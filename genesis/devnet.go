// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/freyrlabs/freyr/farm"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/state"
	"github.com/freyrlabs/freyr/token"
)

// DevAccount account for development.
type DevAccount struct {
	Address freyr.Address
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the devnet. Addresses are
// derived from fixed seeds so every devnet ledger agrees on them.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	accs := make([]DevAccount, 0, 10)
	for i := range 10 {
		seed := freyr.Keccak256(fmt.Appendf(nil, "freyr-dev-%d", i))
		accs = append(accs, DevAccount{freyr.BytesToAddress(seed.Bytes()[12:])})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet creates the devnet genesis. The first dev account owns the
// farm; every dev account gets a stake balance with a matching farm
// allowance, so deposits work out of the box.
func NewDevnet() *Genesis {
	owner := DevAccounts()[0].Address
	allocation := new(big.Int).Mul(big.NewInt(1_000_000), freyr.RewardScale)

	builder := new(Builder).
		State(func(st *state.State) error {
			stake := token.New(freyr.StakeTokenAddress, st, freyr.StakeTokenName, freyr.StakeTokenSymbol, nil)
			reward := token.New(freyr.RewardTokenAddress, st, freyr.RewardTokenName, freyr.RewardTokenSymbol, nil)
			f := farm.New(freyr.FarmAddress, st, stake, reward, nil)

			if err := f.Initialize(owner, freyr.InitialRewardPerStep, freyr.InitialFeePercent); err != nil {
				return err
			}
			for _, a := range DevAccounts() {
				if err := stake.Mint(a.Address, allocation); err != nil {
					return err
				}
				if err := stake.Approve(a.Address, freyr.FarmAddress, allocation); err != nil {
					return err
				}
			}
			return nil
		}).
		ExtraData([]byte("devnet"))

	id, err := builder.ComputeID()
	if err != nil {
		panic(err)
	}
	return &Genesis{builder, id, "devnet"}
}
