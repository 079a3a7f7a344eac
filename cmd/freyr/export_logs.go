// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/logdb"
)

type exportedEvent struct {
	Type    string           `json:"type"`
	Step    uint64           `json:"step"`
	Index   uint32           `json:"index"`
	Address freyr.Address    `json:"address"`
	Topics  []*freyr.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
}

type exportedTransfer struct {
	Type      string                   `json:"type"`
	Step      uint64                   `json:"step"`
	Index     uint32                   `json:"index"`
	Token     freyr.Address            `json:"token"`
	Sender    freyr.Address            `json:"sender"`
	Recipient freyr.Address            `json:"recipient"`
	Amount    *ethmath.HexOrDecimal256 `json:"amount"`
}

func newExportedEvent(ev *logdb.Event) *exportedEvent {
	out := &exportedEvent{
		Type:    "event",
		Step:    ev.Step,
		Index:   ev.Index,
		Address: ev.Address,
		Data:    hexutil.Encode(ev.Data),
	}
	for _, topic := range ev.Topics {
		if topic != nil {
			out.Topics = append(out.Topics, topic)
		}
	}
	return out
}

func newExportedTransfer(tr *logdb.Transfer) *exportedTransfer {
	amount := ethmath.HexOrDecimal256(*tr.Amount)
	return &exportedTransfer{
		Type:      "transfer",
		Step:      tr.Step,
		Index:     tr.Index,
		Token:     tr.Token,
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    &amount,
	}
}

func exportLogsAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	gene := selectGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)
	logDB := openLogDB(instanceDir)
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	out, err := os.Create(ctx.String(outputFlag.Name))
	if err != nil {
		return errors.Wrap(err, "create export file")
	}
	defer out.Close()

	if err := exportLogs(handleExitSignal(), logDB, out); err != nil {
		return err
	}

	logger.Info("logs exported", "path", out.Name())
	return nil
}

func exportLogs(ctx context.Context, logDB *logdb.LogDB, w io.Writer) error {
	evCount, err := logDB.EventCount(ctx)
	if err != nil {
		return errors.Wrap(err, "count events")
	}
	trCount, err := logDB.TransferCount(ctx)
	if err != nil {
		return errors.Wrap(err, "count transfers")
	}

	fmt.Println(">> Exporting logs <<")
	pb := pb.New64(int64(evCount + trCount)).
		Set64(0).
		SetMaxWidth(90).
		Start()

	defer func() { pb.NotPrint = true }()

	enc := json.NewEncoder(w)

	const pageSize = 1000
	for offset := uint64(0); offset < evCount; offset += pageSize {
		events, err := logDB.FilterEvents(ctx, &logdb.EventFilter{
			Options: &logdb.Options{Offset: offset, Limit: pageSize},
			Order:   logdb.ASC,
		})
		if err != nil {
			return errors.Wrap(err, "filter events")
		}
		if len(events) == 0 {
			break
		}
		for _, ev := range events {
			if err := enc.Encode(newExportedEvent(ev)); err != nil {
				return errors.Wrap(err, "encode event")
			}
			pb.Add64(1)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	for offset := uint64(0); offset < trCount; offset += pageSize {
		transfers, err := logDB.FilterTransfers(ctx, &logdb.TransferFilter{
			Options: &logdb.Options{Offset: offset, Limit: pageSize},
			Order:   logdb.ASC,
		})
		if err != nil {
			return errors.Wrap(err, "filter transfers")
		}
		if len(transfers) == 0 {
			break
		}
		for _, tr := range transfers {
			if err := enc.Encode(newExportedTransfer(tr)); err != nil {
				return errors.Wrap(err, "encode transfer")
			}
			pb.Add64(1)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	pb.Finish()
	return nil
}
