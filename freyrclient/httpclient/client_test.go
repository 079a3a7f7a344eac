// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/api/ledger"
	"github.com/freyrlabs/freyr/api/logs"
	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/api/stakers"
	"github.com/freyrlabs/freyr/api/tokens"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/freyrclient/common"
)

func TestClient_GetLedgerStatus(t *testing.T) {
	expectedStatus := &ledger.Status{
		Network:   "devnet",
		GenesisID: freyr.Bytes32{0x01},
		Step:      12,
		Seq:       34,
	}

	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ledger", r.URL.Path)
		calls++

		statusBytes, _ := json.Marshal(expectedStatus)
		w.Write(statusBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	status, err := client.GetLedgerStatus()

	assert.NoError(t, err)
	assert.Equal(t, expectedStatus, status)

	// the genesis ID is cached from the status fetch
	id, err := client.GetGenesisID()
	assert.NoError(t, err)
	assert.Equal(t, freyr.Bytes32{0x01}, id)
	assert.Equal(t, 1, calls)
}

func TestClient_GetStaker(t *testing.T) {
	addr := freyr.BytesToAddress([]byte("alice"))
	expectedStaker := &stakers.Staker{
		Address:    addr,
		Balance:    math.HexOrDecimal256{},
		Checkpoint: 5,
		IsStaking:  true,
		HasStaked:  true,
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stakers/"+addr.String(), r.URL.Path)

		stakerBytes, _ := json.Marshal(expectedStaker)
		w.Write(stakerBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	staker, err := client.GetStaker(&addr)

	assert.NoError(t, err)
	assert.Equal(t, expectedStaker, staker)
}

func TestClient_Deposit(t *testing.T) {
	addr := freyr.BytesToAddress([]byte("alice"))
	expectedReceipt := &receipts.ReceiptMessage{
		Seq:       1,
		Kind:      "deposit",
		Events:    []*receipts.EventMessage{},
		Transfers: []*receipts.TransferMessage{},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stakers/"+addr.String()+"/deposit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req stakers.DepositRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Amount)

		receiptBytes, _ := json.Marshal(expectedReceipt)
		w.Write(receiptBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	amount := math.HexOrDecimal256{}
	receipt, err := client.Deposit(&addr, &stakers.DepositRequest{Amount: &amount})

	assert.NoError(t, err)
	assert.Equal(t, expectedReceipt, receipt)
}

func TestClient_GetReceipt(t *testing.T) {
	expectedReceipt := &receipts.ReceiptMessage{
		Seq:       9,
		Kind:      "claim",
		Events:    []*receipts.EventMessage{},
		Transfers: []*receipts.TransferMessage{},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/receipts/9", "/receipts/best":
			receiptBytes, _ := json.Marshal(expectedReceipt)
			w.Write(receiptBytes)
		default:
			// pruned or unknown seq
			w.Write([]byte("null"))
		}
	}))
	defer ts.Close()

	client := New(ts.URL)

	receipt, err := client.GetReceipt(9)
	assert.NoError(t, err)
	assert.Equal(t, expectedReceipt, receipt)

	receipt, err = client.GetBestReceipt()
	assert.NoError(t, err)
	assert.Equal(t, expectedReceipt, receipt)

	_, err = client.GetReceipt(10)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestClient_FilterEvents(t *testing.T) {
	expectedEvents := []*logs.FilteredEvent{{
		Address: freyr.FarmAddress,
		Name:    "Deposit",
		Data:    "0x",
		Meta:    logs.LogMeta{Step: 3, Index: 0},
	}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logs/event", r.URL.Path)

		eventBytes, _ := json.Marshal(expectedEvents)
		w.Write(eventBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	events, err := client.FilterEvents(&logs.EventFilter{})

	assert.NoError(t, err)
	assert.Equal(t, expectedEvents, events)
}

func TestClient_FilterTransfers(t *testing.T) {
	expectedTransfers := []*logs.FilteredTransfer{{
		Token:     freyr.StakeTokenAddress,
		Sender:    freyr.BytesToAddress([]byte("alice")),
		Recipient: freyr.FarmAddress,
		Amount:    math.HexOrDecimal256{},
		Meta:      logs.LogMeta{Step: 3, Index: 0},
	}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logs/transfer", r.URL.Path)

		transferBytes, _ := json.Marshal(expectedTransfers)
		w.Write(transferBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	transfers, err := client.FilterTransfers(&logs.TransferFilter{})

	assert.NoError(t, err)
	assert.Equal(t, expectedTransfers, transfers)
}

func TestClient_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not staking", http.StatusBadRequest)
	}))
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.Withdraw(&freyr.Address{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNot200Status))
	assert.Contains(t, err.Error(), "not staking")
	assert.Contains(t, err.Error(), "400")
}

func TestClient_RawHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/ledger", r.URL.Path)
			w.Write([]byte(`{"network":"devnet"}`))
		case http.MethodPost:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer ts.Close()

	client := New(ts.URL)

	body, status, err := client.RawHTTPGet("/ledger")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "devnet")

	_, status, err = client.RawHTTPPost("/anything", map[string]string{"k": "v"})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, status)
}
