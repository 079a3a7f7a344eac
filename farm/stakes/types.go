// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"
)

// Staker is the per-account staking record. A record is created lazily on
// first deposit and never physically destroyed: after a full withdrawal it
// is retained with zeroed balance so its flags and checkpoint persist.
type Staker struct {
	Balance        *big.Int // currently staked amount
	Checkpoint     uint64   // step at which rewards were last settled
	PendingRewards *big.Int // accrued but unclaimed rewards
	HasStaked      bool     // occupies a slot in the member set
	IsStaking      bool     // the balance is the account's active stake
}

// IsEmpty reports a record never touched by a deposit.
func (s *Staker) IsEmpty() bool {
	return !s.HasStaked && !s.IsStaking &&
		s.Checkpoint == 0 &&
		(s.Balance == nil || s.Balance.Sign() == 0) &&
		(s.PendingRewards == nil || s.PendingRewards.Sign() == 0)
}

// init backfills nil amounts so callers can do arithmetic without guards.
func (s *Staker) init() *Staker {
	if s.Balance == nil {
		s.Balance = new(big.Int)
	}
	if s.PendingRewards == nil {
		s.PendingRewards = new(big.Int)
	}
	return s
}
