// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package event defines the log records produced by ledger operations.
package event

import (
	"math/big"

	"github.com/freyrlabs/freyr/freyr"
)

// Event is a log entry emitted by a ledger contract.
// Topics[0] holds the keccak-256 hash of the event signature; further topics
// hold indexed arguments left-padded to 32 bytes.
type Event struct {
	Address freyr.Address
	Topics  []freyr.Bytes32
	Data    []byte
}

// Events slice of event logs.
type Events []*Event

// Transfer is a token movement log.
type Transfer struct {
	Token     freyr.Address
	Sender    freyr.Address
	Recipient freyr.Address
	Amount    *big.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer

// Sink consumes logs as operations produce them.
type Sink interface {
	Log(ev *Event)
	LogTransfer(tr *Transfer)
}

// Buffer is a Sink collecting logs in memory, in emission order.
type Buffer struct {
	events    Events
	transfers Transfers
}

// Log implements Sink.
func (b *Buffer) Log(ev *Event) {
	b.events = append(b.events, ev)
}

// LogTransfer implements Sink.
func (b *Buffer) LogTransfer(tr *Transfer) {
	b.transfers = append(b.transfers, tr)
}

// Events returns the buffered events.
func (b *Buffer) Events() Events {
	return b.events
}

// Transfers returns the buffered transfers.
func (b *Buffer) Transfers() Transfers {
	return b.transfers
}

// Reset drops all buffered logs.
func (b *Buffer) Reset() {
	b.events = nil
	b.transfers = nil
}

// Word left-pads b to a 32-byte log data word.
func Word(b []byte) []byte {
	w := freyr.BytesToBytes32(b)
	return w.Bytes()
}
