// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/freyrlabs/freyr/event"
	"github.com/freyrlabs/freyr/freyr"
)

// Event signature topics of the farm contract. The subject address is the
// second topic; the amount is the 32-byte data word.
var (
	DepositEvent            = freyr.Keccak256([]byte("Deposit(address,uint256)"))
	WithdrawEvent           = freyr.Keccak256([]byte("Withdraw(address,uint256)"))
	RewardsClaimedEvent     = freyr.Keccak256([]byte("RewardsClaimed(address,uint256)"))
	RewardsDistributedEvent = freyr.Keccak256([]byte("RewardsDistributed(address,uint256)"))
	FeeCollectedEvent       = freyr.Keccak256([]byte("FeeCollected(address,uint256)"))
)

var eventNames = map[freyr.Bytes32]string{
	DepositEvent:            "Deposit",
	WithdrawEvent:           "Withdraw",
	RewardsClaimedEvent:     "RewardsClaimed",
	RewardsDistributedEvent: "RewardsDistributed",
	FeeCollectedEvent:       "FeeCollected",
}

// EventName resolves a signature topic to the event name.
func EventName(topic0 freyr.Bytes32) (string, bool) {
	name, ok := eventNames[topic0]
	return name, ok
}

func (f *Farm) emit(sig freyr.Bytes32, subject freyr.Address, amount *big.Int) {
	if f.sink == nil {
		return
	}
	f.sink.Log(&event.Event{
		Address: f.ctx.Address(),
		Topics:  []freyr.Bytes32{sig, freyr.BytesToBytes32(subject.Bytes())},
		Data:    event.Word(amount.Bytes()),
	})
}
