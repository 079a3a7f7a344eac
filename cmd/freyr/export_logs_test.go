// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/genesis"
	"github.com/freyrlabs/freyr/test/testledger"
)

func TestExportLogs(t *testing.T) {
	led, err := testledger.NewDefault()
	require.NoError(t, err)
	defer led.Close()

	acc := genesis.DevAccounts()[0].Address
	stake := new(big.Int).Mul(big.NewInt(100), freyr.RewardScale)

	_, err = led.Runtime().Deposit(acc, stake)
	require.NoError(t, err)
	_, err = led.Runtime().AdvanceStep()
	require.NoError(t, err)
	_, err = led.Runtime().Claim(acc)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exportLogs(context.Background(), led.LogDB(), &buf))

	evCount, err := led.LogDB().EventCount(context.Background())
	require.NoError(t, err)
	trCount, err := led.LogDB().TransferCount(context.Background())
	require.NoError(t, err)
	require.Positive(t, evCount)
	require.Positive(t, trCount)

	var events, transfers uint64
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var line struct {
			Type string `json:"type"`
			Step uint64 `json:"step"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		switch line.Type {
		case "event":
			events++
		case "transfer":
			transfers++
		default:
			t.Fatalf("unexpected line type %q", line.Type)
		}
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, evCount, events)
	assert.Equal(t, trCount, transfers)
}
