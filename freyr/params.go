// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package freyr

import "math/big"

// Constants of the reward ledger.
const (
	// StepInterval default wall-clock seconds between two accrual steps.
	StepInterval uint64 = 1

	// MaxFeePercent upper bound of the claim fee, percent scale.
	MaxFeePercent uint64 = 100
)

// Token metadata of the two ledger assets.
const (
	StakeTokenName    = "Freyr Stake"
	StakeTokenSymbol  = "FST"
	RewardTokenName   = "Freyr Reward"
	RewardTokenSymbol = "FRW"
)

// Well-known ledger addresses. Derived from names so genesis and tests agree
// without configuration.
var (
	FarmAddress        = BytesToAddress([]byte("freyr-farm"))
	StakeTokenAddress  = BytesToAddress([]byte("freyr-stake-token"))
	RewardTokenAddress = BytesToAddress([]byte("freyr-reward-token"))
	LedgerAddress      = BytesToAddress([]byte("freyr-ledger"))
)

var (
	// RewardScale fixed-point scale of a staker's share of the total stake.
	RewardScale = big.NewInt(1e18)

	// InitialRewardPerStep default reward minted per elapsed step, shared by
	// all stakers pro rata.
	InitialRewardPerStep = big.NewInt(1e18)

	// InitialFeePercent default claim fee.
	InitialFeePercent = big.NewInt(5)
)
