// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package freyrclient

import (
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/api"
	"github.com/freyrlabs/freyr/api/ledger"
	"github.com/freyrlabs/freyr/api/logs"
	"github.com/freyrlabs/freyr/farm"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/genesis"
	"github.com/freyrlabs/freyr/test/testledger"
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), freyr.RewardScale)
}

func initNodeServer(t *testing.T) *httptest.Server {
	led, err := testledger.NewDefault()
	require.NoError(t, err)

	handler, closer := api.New(
		led.Runtime(),
		led.LogDB(),
		ledger.InfoFromGenesis(led.Genesis(), true),
		api.Options{
			AllowedOrigins: "*",
			BacktraceLimit: 1000,
			LogsLimit:      1000,
		},
	)
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		ts.Close()
		closer()
		led.Close()
	})
	return ts
}

func TestClientStakingFlow(t *testing.T) {
	ts := initNodeServer(t)
	client := New(ts.URL)
	alice := genesis.DevAccounts()[1].Address

	status, err := client.LedgerStatus()
	require.NoError(t, err)
	assert.Equal(t, "devnet", status.Network)
	assert.Equal(t, uint64(0), status.Step)

	id, err := client.GenesisID()
	require.NoError(t, err)
	assert.Equal(t, status.GenesisID, id)

	info, err := client.NodeInfo()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.StepInterval)

	rec, err := client.Deposit(alice, e18(100))
	require.NoError(t, err)
	assert.Equal(t, "deposit", rec.Kind)
	assert.Equal(t, uint64(1), rec.Seq)

	staker, err := client.Staker(alice)
	require.NoError(t, err)
	assert.Equal(t, e18(100).String(), (*big.Int)(&staker.Balance).String())
	assert.True(t, staker.IsStaking)

	step, err := client.AdvanceStep()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), step)

	rec, err = client.Claim(alice)
	require.NoError(t, err)
	assert.Equal(t, "claim", rec.Kind)

	// payout lands on the reward token, minus the 5% fee
	balance, err := client.TokenBalance(freyr.RewardTokenAddress, alice)
	require.NoError(t, err)
	assert.Equal(t, "950000000000000000", balance.String())

	rec, err = client.Withdraw(alice)
	require.NoError(t, err)
	assert.Equal(t, "withdraw", rec.Kind)

	set, err := client.Stakers()
	require.NoError(t, err)
	assert.Empty(t, set)

	// the revert surfaces through the client error
	_, err = client.Withdraw(alice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not staking")
}

func TestClientOwnerOps(t *testing.T) {
	ts := initNodeServer(t)
	client := New(ts.URL)
	owner := genesis.DevAccounts()[0].Address
	alice := genesis.DevAccounts()[1].Address

	_, err := client.Deposit(alice, e18(10))
	require.NoError(t, err)
	_, err = client.AdvanceStep()
	require.NoError(t, err)

	rec, err := client.DistributeAll(owner)
	require.NoError(t, err)
	assert.Equal(t, "distribute", rec.Kind)

	_, err = client.DistributeAll(alice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")

	rec, err = client.SetFeePercent(owner, big.NewInt(20))
	require.NoError(t, err)
	assert.Equal(t, "set-fee", rec.Kind)

	status, err := client.LedgerStatus()
	require.NoError(t, err)
	assert.Equal(t, "20", (*big.Int)(&status.FeePercent).String())
}

func TestClientTokens(t *testing.T) {
	ts := initNodeServer(t)
	client := New(ts.URL)
	alice := genesis.DevAccounts()[1].Address
	bob := genesis.DevAccounts()[2].Address

	toks, err := client.Tokens()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, freyr.StakeTokenSymbol, toks[0].Symbol)
	assert.Equal(t, freyr.RewardTokenSymbol, toks[1].Symbol)

	tok, err := client.Token(freyr.StakeTokenAddress)
	require.NoError(t, err)
	assert.Equal(t, freyr.StakeTokenName, tok.Name)

	_, err = client.ApproveToken(freyr.StakeTokenAddress, alice, bob, e18(5))
	require.NoError(t, err)

	allowance, err := client.TokenAllowance(freyr.StakeTokenAddress, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, e18(5).String(), allowance.String())

	_, err = client.TransferToken(freyr.StakeTokenAddress, alice, bob, e18(3))
	require.NoError(t, err)

	balance, err := client.TokenBalance(freyr.StakeTokenAddress, bob)
	require.NoError(t, err)
	assert.Equal(t, e18(1_000_003).String(), balance.String())
}

func TestClientReceiptsAndLogs(t *testing.T) {
	ts := initNodeServer(t)
	client := New(ts.URL)
	alice := genesis.DevAccounts()[1].Address

	_, err := client.Deposit(alice, e18(50))
	require.NoError(t, err)

	rec, err := client.Receipt(1)
	require.NoError(t, err)
	assert.Equal(t, "deposit", rec.Kind)

	best, err := client.BestReceipt()
	require.NoError(t, err)
	assert.Equal(t, rec.Seq, best.Seq)

	_, err = client.Receipt(999)
	require.Error(t, err)

	events, err := client.FilterEvents(&logs.EventFilter{
		Options: &logs.Options{Limit: 10},
		CriteriaSet: []*logs.EventCriteria{
			{Address: &freyr.FarmAddress, Topic0: &farm.DepositEvent},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Deposit", events[0].Name)

	transfers, err := client.FilterTransfers(&logs.TransferFilter{
		Options: &logs.Options{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, alice, transfers[0].Sender)
}

func TestClientSubscribeReceipts(t *testing.T) {
	ts := initNodeServer(t)
	alice := genesis.DevAccounts()[1].Address

	client, err := NewWithWS(ts.URL)
	require.NoError(t, err)

	receiptChan, err := client.SubscribeReceipts("")
	require.NoError(t, err)

	_, err = client.Deposit(alice, e18(1))
	require.NoError(t, err)

	select {
	case wrapper := <-receiptChan:
		require.NoError(t, wrapper.Error)
		assert.Equal(t, "deposit", wrapper.Data.Kind)
		assert.Equal(t, uint64(1), wrapper.Data.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("no receipt received")
	}
}

func TestClientNoWS(t *testing.T) {
	client := New("http://127.0.0.1:0")
	_, err := client.SubscribeReceipts("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a websocket typed client")
}
