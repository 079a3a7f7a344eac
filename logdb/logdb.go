// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb persists event and transfer logs in sqlite, indexed for
// filtered queries over ledger history.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/freyrlabs/freyr/event"
	"github.com/freyrlabs/freyr/freyr"
)

const eventTableSchema = `
create table if not exists event (
	step integer not null,
	eventIndex integer not null,
	address blob(20),
	topic0 blob(32),
	topic1 blob(32),
	data blob,
	primary key (step, eventIndex)
);

CREATE INDEX if not exists eventAddressIndex on event(address);
CREATE INDEX if not exists eventTopic0Index on event(topic0);
CREATE INDEX if not exists eventTopic1Index on event(topic1);
`

const transferTableSchema = `
create table if not exists transfer (
	step integer not null,
	transferIndex integer not null,
	token blob(20),
	sender blob(20),
	recipient blob(20),
	amount blob,
	primary key (step, transferIndex)
);

CREATE INDEX if not exists transferTokenIndex on transfer(token);
CREATE INDEX if not exists transferSenderIndex on transfer(sender);
CREATE INDEX if not exists transferRecipientIndex on transfer(recipient);
`

// LogDB is the persisted log store.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New creates or opens the log db at the given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem creates a log db in ram. Each sqlite connection would get its own
// in-memory database, so the pool is pinned to a single connection.
func NewMem() (*LogDB, error) {
	db, err := New(":memory:")
	if err != nil {
		return nil, err
	}
	db.db.SetMaxOpenConns(1)
	return db, nil
}

// Close closes the log db.
func (db *LogDB) Close() {
	db.db.Close()
}

// Path returns the db file path.
func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite driver version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare stages the logs of one ledger step. Nothing is written until
// Commit.
func (db *LogDB) Prepare(step uint64) *StepBatch {
	return &StepBatch{
		db:   db.db,
		step: step,
	}
}

// FilterEvents returns events matching the filter. A nil filter returns
// everything.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND step >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND step <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND ( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY step DESC,eventIndex DESC "
	} else {
		stmt += " ORDER BY step ASC,eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

// FilterTransfers returns transfers matching the filter. A nil filter
// returns everything.
func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT * FROM transfer")
	}
	var args []any
	stmt := "SELECT * FROM transfer WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND step >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND step <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND ( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Token != nil {
			args = append(args, criteria.Token.Bytes())
			stmt += " AND token = ? "
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ? "
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ? "
		}
		stmt += ")"
	}
	if filter.Order == DESC {
		stmt += " ORDER BY step DESC,transferIndex DESC "
	} else {
		stmt += " ORDER BY step ASC,transferIndex ASC "
	}
	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryTransfers(ctx, stmt, args...)
}

// EventCount returns the number of stored events.
func (db *LogDB) EventCount(ctx context.Context) (n uint64, err error) {
	err = db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n)
	return
}

// TransferCount returns the number of stored transfers.
func (db *LogDB) TransferCount(ctx context.Context) (n uint64, err error) {
	err = db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transfer").Scan(&n)
	return
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			step    uint64
			index   uint32
			address []byte
			topics  [2][]byte
			data    []byte
		)
		if err := rows.Scan(
			&step,
			&index,
			&address,
			&topics[0],
			&topics[1],
			&data,
		); err != nil {
			return nil, err
		}
		ev := &Event{
			Step:    step,
			Index:   index,
			Address: freyr.BytesToAddress(address),
			Data:    data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := freyr.BytesToBytes32(topic)
				ev.Topics[i] = &h
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			step      uint64
			index     uint32
			token     []byte
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(
			&step,
			&index,
			&token,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			Step:      step,
			Index:     index,
			Token:     freyr.BytesToAddress(token),
			Sender:    freyr.BytesToAddress(sender),
			Recipient: freyr.BytesToAddress(recipient),
			Amount:    new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *freyr.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// StepBatch stages the logs of one step and writes them in a single
// transaction. Logging the same step twice replaces its rows, so replays
// are idempotent.
type StepBatch struct {
	db        *sql.DB
	step      uint64
	events    []*Event
	transfers []*Transfer
}

// Insert stages events and transfers, preserving emission order.
func (b *StepBatch) Insert(events event.Events, transfers event.Transfers) *StepBatch {
	for _, ev := range events {
		b.events = append(b.events, newEvent(b.step, uint32(len(b.events)), ev))
	}
	for _, tr := range transfers {
		b.transfers = append(b.transfers, newTransfer(b.step, uint32(len(b.transfers)), tr))
	}
	return b
}

// Commit writes the staged logs.
func (b *StepBatch) Commit() (err error) {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, ev := range b.events {
		if _, err = tx.Exec(
			"INSERT OR REPLACE INTO event(step, eventIndex, address, topic0, topic1, data) VALUES ( ?, ?, ?, ?, ?, ?);",
			ev.Step,
			ev.Index,
			ev.Address.Bytes(),
			topicValue(ev.Topics[0]),
			topicValue(ev.Topics[1]),
			ev.Data,
		); err != nil {
			return err
		}
	}
	for _, tr := range b.transfers {
		if _, err = tx.Exec(
			"INSERT OR REPLACE INTO transfer(step, transferIndex, token, sender, recipient, amount) VALUES ( ?, ?, ?, ?, ?, ?);",
			tr.Step,
			tr.Index,
			tr.Token.Bytes(),
			tr.Sender.Bytes(),
			tr.Recipient.Bytes(),
			tr.Amount.Bytes(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
