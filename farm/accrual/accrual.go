// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual implements the proportional reward settlement math.
// All arithmetic is arbitrary precision; multiplication happens strictly
// before division and integer division truncates, so rewards are slightly
// under-distributed, never over-distributed.
package accrual

import (
	"math/big"

	"github.com/freyrlabs/freyr/farm/stakes"
	"github.com/freyrlabs/freyr/freyr"
)

var percentDivisor = big.NewInt(100)

// Reward computes the reward owed for balance held over elapsed steps:
// share = balance * RewardScale / totalStaked,
// reward = rewardPerStep * elapsed * share / RewardScale.
// totalStaked must be positive.
func Reward(balance, totalStaked, rewardPerStep *big.Int, elapsed uint64) *big.Int {
	share := new(big.Int).Mul(balance, freyr.RewardScale)
	share.Div(share, totalStaked)

	reward := new(big.Int).SetUint64(elapsed)
	reward.Mul(reward, rewardPerStep)
	reward.Mul(reward, share)
	return reward.Div(reward, freyr.RewardScale)
}

// Settle folds the reward accrued since the record's checkpoint into its
// pending rewards and restamps the checkpoint to step. step must not
// precede the checkpoint.
//
// When the elapsed window or the ledger's total stake is zero, only the
// clock resets: the idle window forfeits its rewards instead of deferring
// them. The second return value reports whether settlement ran; a settled
// reward may still be zero after truncation.
func Settle(rec *stakes.Staker, totalStaked, rewardPerStep *big.Int, step uint64) (*big.Int, bool) {
	elapsed := step - rec.Checkpoint
	if elapsed == 0 || totalStaked.Sign() == 0 {
		rec.Checkpoint = step
		return nil, false
	}

	reward := Reward(rec.Balance, totalStaked, rewardPerStep, elapsed)
	rec.PendingRewards.Add(rec.PendingRewards, reward)
	rec.Checkpoint = step
	return reward, true
}

// SplitFee splits a pending reward amount into payout and fee,
// fee = pending * feePercent / 100.
func SplitFee(pending, feePercent *big.Int) (payout, fee *big.Int) {
	fee = new(big.Int).Mul(pending, feePercent)
	fee.Div(fee, percentDivisor)
	payout = new(big.Int).Sub(pending, fee)
	return
}
