// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/genesis"
	"github.com/freyrlabs/freyr/runtime"
)

// Info identifies the network the ledger was seeded from. OnDemandStep
// exposes the manual step endpoint, for ledgers driven by tests.
type Info struct {
	Network      string
	GenesisID    freyr.Bytes32
	OnDemandStep bool
}

// InfoFromGenesis derives endpoint info from the genesis seed.
func InfoFromGenesis(gene *genesis.Genesis, onDemandStep bool) Info {
	return Info{
		Network:      gene.Name(),
		GenesisID:    gene.ID(),
		OnDemandStep: onDemandStep,
	}
}

// Status is the ledger-wide status message.
type Status struct {
	Network       string               `json:"network"`
	GenesisID     freyr.Bytes32        `json:"genesisID"`
	Step          uint64               `json:"step"`
	Seq           uint64               `json:"seq"`
	Owner         freyr.Address        `json:"owner"`
	FeePercent    math.HexOrDecimal256 `json:"feePercent"`
	RewardPerStep math.HexOrDecimal256 `json:"rewardPerStep"`
	TotalStaked   math.HexOrDecimal256 `json:"totalStaked"`
	StakerCount   uint64               `json:"stakerCount"`
}

// DistributeRequest asks for a ledger-wide settlement at the current step.
type DistributeRequest struct {
	Caller freyr.Address `json:"caller"`
}

// StepResult reports the step reached by a manual advance.
type StepResult struct {
	Step uint64 `json:"step"`
}

// SetFeeRequest adjusts the claim fee percent.
type SetFeeRequest struct {
	Caller  freyr.Address         `json:"caller"`
	Percent *math.HexOrDecimal256 `json:"percent"`
}

func convertStatus(info Info, seq uint64, global *runtime.GlobalState) *Status {
	return &Status{
		Network:       info.Network,
		GenesisID:     info.GenesisID,
		Step:          global.Step,
		Seq:           seq,
		Owner:         global.Owner,
		FeePercent:    math.HexOrDecimal256(*global.FeePercent),
		RewardPerStep: math.HexOrDecimal256(*global.RewardPerStep),
		TotalStaked:   math.HexOrDecimal256(*global.TotalStaked),
		StakerCount:   global.StakerCount,
	}
}
