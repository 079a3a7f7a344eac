// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package receipts

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/freyrlabs/freyr/farm"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/runtime"
)

// ReceiptMessage is the JSON form of a committed operation.
type ReceiptMessage struct {
	Seq       uint64             `json:"seq"`
	Kind      string             `json:"kind"`
	Step      uint64             `json:"step"`
	Events    []*EventMessage    `json:"events"`
	Transfers []*TransferMessage `json:"transfers"`
}

// EventMessage is the JSON form of an emitted event. Name carries the
// decoded signature when the topic is a known farm event.
type EventMessage struct {
	Address freyr.Address   `json:"address"`
	Name    string          `json:"name,omitempty"`
	Topics  []freyr.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
}

// TransferMessage is the JSON form of a token movement.
type TransferMessage struct {
	Token     freyr.Address        `json:"token"`
	Sender    freyr.Address        `json:"sender"`
	Recipient freyr.Address        `json:"recipient"`
	Amount    math.HexOrDecimal256 `json:"amount"`
}

// Convert renders a runtime receipt into its JSON form.
func Convert(rec *runtime.Receipt) *ReceiptMessage {
	msg := &ReceiptMessage{
		Seq:       rec.Seq,
		Kind:      rec.Kind,
		Step:      rec.Step,
		Events:    make([]*EventMessage, 0, len(rec.Events)),
		Transfers: make([]*TransferMessage, 0, len(rec.Transfers)),
	}
	for _, ev := range rec.Events {
		em := &EventMessage{
			Address: ev.Address,
			Topics:  ev.Topics,
			Data:    hexutil.Encode(ev.Data),
		}
		if len(ev.Topics) > 0 {
			if name, ok := farm.EventName(ev.Topics[0]); ok {
				em.Name = name
			}
		}
		msg.Events = append(msg.Events, em)
	}
	for _, tr := range rec.Transfers {
		msg.Transfers = append(msg.Transfers, &TransferMessage{
			Token:     tr.Token,
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    math.HexOrDecimal256(*tr.Amount),
		})
	}
	return msg
}
