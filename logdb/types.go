// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/freyrlabs/freyr/event"
	"github.com/freyrlabs/freyr/freyr"
)

// Event is an event log annotated with its position in ledger history.
type Event struct {
	Step    uint64
	Index   uint32
	Address freyr.Address
	Topics  [2]*freyr.Bytes32
	Data    []byte
}

func newEvent(step uint64, index uint32, ev *event.Event) *Event {
	rec := &Event{
		Step:    step,
		Index:   index,
		Address: ev.Address,
		Data:    ev.Data,
	}
	for i := 0; i < len(ev.Topics) && i < len(rec.Topics); i++ {
		topic := ev.Topics[i]
		rec.Topics[i] = &topic
	}
	return rec
}

// Transfer is a token transfer annotated with its position in ledger history.
type Transfer struct {
	Step      uint64
	Index     uint32
	Token     freyr.Address
	Sender    freyr.Address
	Recipient freyr.Address
	Amount    *big.Int
}

func newTransfer(step uint64, index uint32, tr *event.Transfer) *Transfer {
	return &Transfer{
		Step:      step,
		Index:     index,
		Token:     tr.Token,
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    tr.Amount,
	}
}

// Order of query results over (step, index).
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds a query to steps in [From, To]. The upper bound is ignored
// when it precedes From.
type Range struct {
	From uint64
	To   uint64
}

// Options paginates query results.
type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events; nil fields match anything. Topic positions
// follow the emitted layout: signature first, subject second.
type EventCriteria struct {
	Address *freyr.Address
	Topics  [2]*freyr.Bytes32
}

// EventFilter selects events. Criteria combine as OR.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

// TransferCriteria matches transfers; nil fields match anything.
type TransferCriteria struct {
	Token     *freyr.Address
	Sender    *freyr.Address
	Recipient *freyr.Address
}

// TransferFilter selects transfers. Criteria combine as OR.
type TransferFilter struct {
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
