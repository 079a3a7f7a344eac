// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/runtime"
)

// Staker is the JSON form of a staking record, projected to the current
// step. ProjectedRewards previews the live accrual on top of the settled
// pending amount; it is not yet claimable state.
type Staker struct {
	Address          freyr.Address        `json:"address"`
	Balance          math.HexOrDecimal256 `json:"balance"`
	Checkpoint       uint64               `json:"checkpoint"`
	PendingRewards   math.HexOrDecimal256 `json:"pendingRewards"`
	ProjectedRewards math.HexOrDecimal256 `json:"projectedRewards"`
	HasStaked        bool                 `json:"hasStaked"`
	IsStaking        bool                 `json:"isStaking"`
}

// DepositRequest stakes an amount for the addressed account.
type DepositRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func convertStaker(status *runtime.StakerStatus) *Staker {
	return &Staker{
		Address:          status.Address,
		Balance:          math.HexOrDecimal256(*status.Balance),
		Checkpoint:       status.Checkpoint,
		PendingRewards:   math.HexOrDecimal256(*status.PendingRewards),
		ProjectedRewards: math.HexOrDecimal256(*status.ProjectedRewards),
		HasStaked:        status.HasStaked,
		IsStaking:        status.IsStaking,
	}
}
