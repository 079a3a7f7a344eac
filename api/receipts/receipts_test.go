// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package receipts_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/genesis"
	"github.com/freyrlabs/freyr/test/testledger"
)

func initReceiptsServer(t *testing.T) (*httptest.Server, *testledger.Ledger) {
	led, err := testledger.NewDefault()
	require.NoError(t, err)
	t.Cleanup(led.Close)

	router := mux.NewRouter()
	receipts.New(led.Runtime()).Mount(router, "/receipts")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, led
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestGetReceipt(t *testing.T) {
	ts, led := initReceiptsServer(t)
	alice := genesis.DevAccounts()[1].Address
	bob := genesis.DevAccounts()[2].Address

	amount := new(big.Int).Mul(big.NewInt(7), freyr.RewardScale)
	_, err := led.Runtime().Approve(freyr.StakeTokenAddress, alice, bob, amount)
	require.NoError(t, err)
	_, err = led.Runtime().Deposit(alice, amount)
	require.NoError(t, err)

	body, code := httpGet(t, ts.URL+"/receipts/1")
	require.Equal(t, http.StatusOK, code)
	var rec receipts.ReceiptMessage
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, uint64(1), rec.Seq)
	assert.Equal(t, "approve", rec.Kind)
	assert.Empty(t, rec.Events)
	assert.Empty(t, rec.Transfers)

	// "best" resolves to the latest committed operation
	body, code = httpGet(t, ts.URL+"/receipts/best")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, uint64(2), rec.Seq)
	assert.Equal(t, "deposit", rec.Kind)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, "Deposit", rec.Events[0].Name)
	require.Len(t, rec.Transfers, 1)
	tr := big.Int(rec.Transfers[0].Amount)
	assert.Equal(t, amount.String(), tr.String())
}

func TestGetReceiptNotFound(t *testing.T) {
	ts, _ := initReceiptsServer(t)

	body, code := httpGet(t, ts.URL+"/receipts/99")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "null", string(body))
}

func TestGetReceiptBadSeq(t *testing.T) {
	ts, _ := initReceiptsServer(t)

	body, code := httpGet(t, ts.URL+"/receipts/nonsense")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "seq")
}
