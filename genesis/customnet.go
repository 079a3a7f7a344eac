// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/farm"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/state"
	"github.com/freyrlabs/freyr/token"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name          string           `json:"name"`
	Owner         freyr.Address    `json:"owner"`
	RewardPerStep *HexOrDecimal256 `json:"rewardPerStep"`
	FeePercent    *HexOrDecimal256 `json:"feePercent"`
	Accounts      []Account        `json:"accounts"`
}

// Account is an account allocation in the genesis seed.
type Account struct {
	Address   freyr.Address    `json:"address"`
	Balance   *HexOrDecimal256 `json:"balance"`
	Reward    *HexOrDecimal256 `json:"reward,omitempty"`
	Allowance *HexOrDecimal256 `json:"allowance,omitempty"`
}

// NewCustomNet creates custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	if gen.Owner.IsZero() {
		return nil, errors.New("owner must be set")
	}
	if gen.RewardPerStep == nil {
		return nil, errors.New("rewardPerStep must be set")
	}
	if (*big.Int)(gen.RewardPerStep).Sign() < 0 {
		return nil, errors.New("rewardPerStep must be a non-negative integer")
	}
	feePercent := freyr.InitialFeePercent
	if gen.FeePercent != nil {
		feePercent = (*big.Int)(gen.FeePercent)
		if feePercent.Sign() < 0 || feePercent.Cmp(new(big.Int).SetUint64(freyr.MaxFeePercent)) > 0 {
			return nil, errors.New("feePercent must be in [0, 100]")
		}
	}
	for _, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%v: balance must be set", a.Address)
		}
		if (*big.Int)(a.Balance).Sign() < 0 {
			return nil, fmt.Errorf("%v: balance must be a non-negative integer", a.Address)
		}
		if a.Reward != nil && (*big.Int)(a.Reward).Sign() < 0 {
			return nil, fmt.Errorf("%v: reward must be a non-negative integer", a.Address)
		}
		if a.Allowance != nil && (*big.Int)(a.Allowance).Sign() < 0 {
			return nil, fmt.Errorf("%v: allowance must be a non-negative integer", a.Address)
		}
	}

	builder := new(Builder).
		State(func(st *state.State) error {
			stake := token.New(freyr.StakeTokenAddress, st, freyr.StakeTokenName, freyr.StakeTokenSymbol, nil)
			reward := token.New(freyr.RewardTokenAddress, st, freyr.RewardTokenName, freyr.RewardTokenSymbol, nil)
			f := farm.New(freyr.FarmAddress, st, stake, reward, nil)

			if err := f.Initialize(gen.Owner, (*big.Int)(gen.RewardPerStep), feePercent); err != nil {
				return err
			}
			for _, a := range gen.Accounts {
				if err := stake.Mint(a.Address, (*big.Int)(a.Balance)); err != nil {
					return err
				}
				if a.Reward != nil {
					if err := reward.Mint(a.Address, (*big.Int)(a.Reward)); err != nil {
						return err
					}
				}
				if a.Allowance != nil {
					if err := stake.Approve(a.Address, freyr.FarmAddress, (*big.Int)(a.Allowance)); err != nil {
						return err
					}
				}
			}
			return nil
		}).
		ExtraData([]byte(name))

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name}, nil
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
// Adapted from go-ethereum/common/math to also implement json.Marshaler.
type HexOrDecimal256 math.HexOrDecimal256

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		return (*big.Int)(i).UnmarshalJSON(input)
	}
	bigint, ok := math.ParseBig256(hex)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	text, err := decimal256.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}
