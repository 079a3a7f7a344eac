// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/api/logs"
	"github.com/freyrlabs/freyr/event"
	"github.com/freyrlabs/freyr/farm"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/logdb"
)

const testLimit = 5

var (
	staker    = freyr.BytesToAddress([]byte("staker"))
	otherAddr = freyr.BytesToAddress([]byte("other"))
)

func initLogServer(t *testing.T) *httptest.Server {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	// one deposit event and one stake transfer per step
	for step := uint64(1); step <= 10; step++ {
		ev := &event.Event{
			Address: freyr.FarmAddress,
			Topics:  []freyr.Bytes32{farm.DepositEvent, freyr.BytesToBytes32(staker.Bytes())},
			Data:    event.Word(big.NewInt(int64(step)).Bytes()),
		}
		tr := &event.Transfer{
			Token:     freyr.StakeTokenAddress,
			Sender:    staker,
			Recipient: freyr.FarmAddress,
			Amount:    big.NewInt(int64(step)),
		}
		require.NoError(t, db.Prepare(step).Insert(event.Events{ev}, event.Transfers{tr}).Commit())
	}

	router := mux.NewRouter()
	logs.New(db, testLimit).Mount(router, "/logs")
	return httptest.NewServer(router)
}

func httpPost(t *testing.T, url string, obj any, expectStatus int) []byte {
	body, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, expectStatus, res.StatusCode, "%s: %s", url, string(r))
	return r
}

func TestFilterEvents(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	filter := &logs.EventFilter{
		Options: &logs.Options{Limit: testLimit},
		Order:   logdb.DESC,
		CriteriaSet: []*logs.EventCriteria{
			{Address: &freyr.FarmAddress, Topic0: &farm.DepositEvent},
		},
	}
	res := httpPost(t, ts.URL+"/logs/event", filter, http.StatusOK)

	var got []*logs.FilteredEvent
	require.NoError(t, json.Unmarshal(res, &got))
	require.Len(t, got, testLimit)
	assert.Equal(t, uint64(10), got[0].Meta.Step)
	assert.Equal(t, uint64(6), got[4].Meta.Step)
	assert.Equal(t, "Deposit", got[0].Name)
	assert.Equal(t, freyr.FarmAddress, got[0].Address)
	require.Len(t, got[0].Topics, 2)
	assert.Equal(t, farm.DepositEvent, *got[0].Topics[0])
	assert.Equal(t, "0x000000000000000000000000000000000000000000000000000000000000000a", got[0].Data)
}

func TestFilterEventsByRange(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	from, to := uint64(3), uint64(4)
	filter := &logs.EventFilter{
		Range:   &logs.Range{From: &from, To: &to},
		Options: &logs.Options{Limit: testLimit},
	}
	res := httpPost(t, ts.URL+"/logs/event", filter, http.StatusOK)

	var got []*logs.FilteredEvent
	require.NoError(t, json.Unmarshal(res, &got))
	require.Len(t, got, 2)
	assert.Equal(t, uint64(3), got[0].Meta.Step)
	assert.Equal(t, uint64(4), got[1].Meta.Step)
}

func TestFilterEventsNoMatch(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	filter := &logs.EventFilter{
		Options:     &logs.Options{Limit: testLimit},
		CriteriaSet: []*logs.EventCriteria{{Address: &otherAddr}},
	}
	res := httpPost(t, ts.URL+"/logs/event", filter, http.StatusOK)
	assert.JSONEq(t, "[]", string(res))
}

func TestFilterEventsLimits(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	// explicit limit above the configured maximum
	filter := &logs.EventFilter{Options: &logs.Options{Limit: testLimit + 1}}
	res := httpPost(t, ts.URL+"/logs/event", filter, http.StatusForbidden)
	assert.Contains(t, string(res), "options.limit exceeds")

	// no options: more matches than the maximum must be rejected, not truncated
	res = httpPost(t, ts.URL+"/logs/event", &logs.EventFilter{}, http.StatusForbidden)
	assert.Contains(t, string(res), "please use pagination")
}

func TestFilterEventsBadRequests(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	from, to := uint64(5), uint64(1)
	filter := &logs.EventFilter{Range: &logs.Range{From: &from, To: &to}}
	res := httpPost(t, ts.URL+"/logs/event", filter, http.StatusBadRequest)
	assert.Contains(t, string(res), "filter.Range.To must be greater than or equal to filter.Range.From")

	res = httpPost(t, ts.URL+"/logs/event", &logs.EventFilter{CriteriaSet: []*logs.EventCriteria{nil}}, http.StatusBadRequest)
	assert.Contains(t, string(res), "criteriaSet[0]: null not allowed")

	res = httpPost(t, ts.URL+"/logs/event", map[string]any{"unknown": 1}, http.StatusBadRequest)
	assert.Contains(t, string(res), "body")
}

func TestFilterTransfers(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	filter := &logs.TransferFilter{
		Options: &logs.Options{Limit: 3},
		CriteriaSet: []*logs.TransferCriteria{
			{Sender: &staker},
		},
	}
	res := httpPost(t, ts.URL+"/logs/transfer", filter, http.StatusOK)

	var got []*logs.FilteredTransfer
	require.NoError(t, json.Unmarshal(res, &got))
	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].Meta.Step)
	assert.Equal(t, freyr.StakeTokenAddress, got[0].Token)
	assert.Equal(t, staker, got[0].Sender)
	assert.Equal(t, freyr.FarmAddress, got[0].Recipient)
	amount := big.Int(got[2].Amount)
	assert.Equal(t, uint64(3), amount.Uint64())
}

func TestFilterTransfersPagination(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	filter := &logs.TransferFilter{
		Options: &logs.Options{Offset: 8, Limit: testLimit},
	}
	res := httpPost(t, ts.URL+"/logs/transfer", filter, http.StatusOK)

	var got []*logs.FilteredTransfer
	require.NoError(t, json.Unmarshal(res, &got))
	require.Len(t, got, 2)
	assert.Equal(t, uint64(9), got[0].Meta.Step)
	assert.Equal(t, uint64(10), got[1].Meta.Step)

	filter = &logs.TransferFilter{CriteriaSet: []*logs.TransferCriteria{{Recipient: &otherAddr}}}
	res = httpPost(t, ts.URL+"/logs/transfer", filter, http.StatusOK)
	assert.JSONEq(t, "[]", string(res))
}
