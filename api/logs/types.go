// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/freyrlabs/freyr/farm"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/logdb"
)

// Range bounds a filter to steps in [from, to]. Missing bounds are open.
type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

// Options paginates filter results.
type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// EventCriteria matches events; missing fields match anything.
type EventCriteria struct {
	Address *freyr.Address `json:"address"`
	Topic0  *freyr.Bytes32 `json:"topic0"`
	Topic1  *freyr.Bytes32 `json:"topic1"`
}

// EventFilter selects events. Criteria combine as OR.
type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

// TransferCriteria matches transfers; missing fields match anything.
type TransferCriteria struct {
	Token     *freyr.Address `json:"token"`
	Sender    *freyr.Address `json:"sender"`
	Recipient *freyr.Address `json:"recipient"`
}

// TransferFilter selects transfers. Criteria combine as OR.
type TransferFilter struct {
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *Range              `json:"range"`
	Options     *Options            `json:"options"`
	Order       logdb.Order         `json:"order"`
}

// LogMeta locates a log on the ledger.
type LogMeta struct {
	Step  uint64 `json:"step"`
	Index uint32 `json:"index"`
}

// FilteredEvent is the JSON form of a stored event.
type FilteredEvent struct {
	Address freyr.Address    `json:"address"`
	Name    string           `json:"name,omitempty"`
	Topics  []*freyr.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
	Meta    LogMeta          `json:"meta"`
}

// FilteredTransfer is the JSON form of a stored transfer.
type FilteredTransfer struct {
	Token     freyr.Address           `json:"token"`
	Sender    freyr.Address           `json:"sender"`
	Recipient freyr.Address           `json:"recipient"`
	Amount    ethmath.HexOrDecimal256 `json:"amount"`
	Meta      LogMeta                 `json:"meta"`
}

func convertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	out := &logdb.Range{To: math.MaxUint64}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = *r.To
	}
	return out
}

func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	out := &logdb.EventFilter{
		Range: convertRange(filter.Range),
		Order: filter.Order,
	}
	if filter.Options != nil {
		out.Options = &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		}
	}
	for _, c := range filter.CriteriaSet {
		out.CriteriaSet = append(out.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [2]*freyr.Bytes32{c.Topic0, c.Topic1},
		})
	}
	return out
}

func convertTransferFilter(filter *TransferFilter) *logdb.TransferFilter {
	out := &logdb.TransferFilter{
		Range: convertRange(filter.Range),
		Order: filter.Order,
	}
	if filter.Options != nil {
		out.Options = &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		}
	}
	for _, c := range filter.CriteriaSet {
		out.CriteriaSet = append(out.CriteriaSet, &logdb.TransferCriteria{
			Token:     c.Token,
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}
	return out
}

func convertEvent(ev *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: ev.Address,
		Data:    hexutil.Encode(ev.Data),
		Meta: LogMeta{
			Step:  ev.Step,
			Index: ev.Index,
		},
	}
	for _, topic := range ev.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, topic)
		}
	}
	if len(fe.Topics) > 0 {
		if name, ok := farm.EventName(*fe.Topics[0]); ok {
			fe.Name = name
		}
	}
	return fe
}

func convertTransfer(tr *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Token:     tr.Token,
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    ethmath.HexOrDecimal256(*tr.Amount),
		Meta: LogMeta{
			Step:  tr.Step,
			Index: tr.Index,
		},
	}
}
