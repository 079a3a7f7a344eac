// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package freyrclient is the high-level client for a Freyr node. It wraps
// the HTTP surface and, optionally, the websocket receipt stream, and
// accepts native types where the wire format uses hex amounts.
package freyrclient

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/freyrlabs/freyr/api/ledger"
	"github.com/freyrlabs/freyr/api/logs"
	"github.com/freyrlabs/freyr/api/node"
	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/api/stakers"
	"github.com/freyrlabs/freyr/api/tokens"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/freyrclient/common"
	"github.com/freyrlabs/freyr/freyrclient/httpclient"
	"github.com/freyrlabs/freyr/freyrclient/wsclient"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

// New creates an HTTP-only client for the node at url.
func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

// NewWithWS creates a client that can also stream receipts over websocket.
func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

func (c *Client) RawWSClient() *wsclient.Client {
	return c.wsConn
}

// LedgerStatus returns the ledger-wide status.
func (c *Client) LedgerStatus() (*ledger.Status, error) {
	return c.httpConn.GetLedgerStatus()
}

// GenesisID returns the genesis ID identifying the node's network.
func (c *Client) GenesisID() (freyr.Bytes32, error) {
	return c.httpConn.GetGenesisID()
}

// NodeInfo returns build and liveness info of the node.
func (c *Client) NodeInfo() (*node.Info, error) {
	return c.httpConn.GetNodeInfo()
}

// AdvanceStep moves the ledger clock one step forward. On-demand nodes only.
func (c *Client) AdvanceStep() (uint64, error) {
	result, err := c.httpConn.AdvanceStep()
	if err != nil {
		return 0, err
	}
	return result.Step, nil
}

// DistributeAll settles every staker at the current step. Owner gated.
func (c *Client) DistributeAll(caller freyr.Address) (*receipts.ReceiptMessage, error) {
	return c.httpConn.DistributeAll(&ledger.DistributeRequest{Caller: caller})
}

// SetFeePercent adjusts the claim fee percent. Owner gated.
func (c *Client) SetFeePercent(caller freyr.Address, percent *big.Int) (*receipts.ReceiptMessage, error) {
	return c.httpConn.SetFeePercent(&ledger.SetFeeRequest{
		Caller:  caller,
		Percent: hexAmount(percent),
	})
}

// Stakers returns the current staker set.
func (c *Client) Stakers() ([]*stakers.Staker, error) {
	return c.httpConn.GetStakers()
}

// Staker returns addr's staking record projected to the current step.
func (c *Client) Staker(addr freyr.Address) (*stakers.Staker, error) {
	return c.httpConn.GetStaker(&addr)
}

// Deposit stakes amount for addr.
func (c *Client) Deposit(addr freyr.Address, amount *big.Int) (*receipts.ReceiptMessage, error) {
	return c.httpConn.Deposit(&addr, &stakers.DepositRequest{Amount: hexAmount(amount)})
}

// Withdraw returns addr's whole staking balance.
func (c *Client) Withdraw(addr freyr.Address) (*receipts.ReceiptMessage, error) {
	return c.httpConn.Withdraw(&addr)
}

// Claim pays out addr's pending rewards minus the protocol fee.
func (c *Client) Claim(addr freyr.Address) (*receipts.ReceiptMessage, error) {
	return c.httpConn.Claim(&addr)
}

// Tokens returns both ledger assets.
func (c *Client) Tokens() ([]*tokens.Token, error) {
	return c.httpConn.GetTokens()
}

// Token returns the ledger asset at addr.
func (c *Client) Token(addr freyr.Address) (*tokens.Token, error) {
	return c.httpConn.GetToken(&addr)
}

// TokenBalance returns holder's balance of the given token.
func (c *Client) TokenBalance(token, holder freyr.Address) (*big.Int, error) {
	balance, err := c.httpConn.GetTokenBalance(&token, &holder)
	if err != nil {
		return nil, err
	}
	return (*big.Int)(&balance.Balance), nil
}

// TokenAllowance returns spender's allowance over holder's balance of the
// given token.
func (c *Client) TokenAllowance(token, holder, spender freyr.Address) (*big.Int, error) {
	allowance, err := c.httpConn.GetTokenAllowance(&token, &holder, &spender)
	if err != nil {
		return nil, err
	}
	return (*big.Int)(&allowance.Allowance), nil
}

// ApproveToken sets spender's allowance over owner's balance of the given
// token.
func (c *Client) ApproveToken(token, owner, spender freyr.Address, amount *big.Int) (*receipts.ReceiptMessage, error) {
	return c.httpConn.ApproveToken(&token, &tokens.ApproveRequest{
		Owner:   owner,
		Spender: spender,
		Amount:  hexAmount(amount),
	})
}

// TransferToken moves tokens between accounts.
func (c *Client) TransferToken(token, from, to freyr.Address, amount *big.Int) (*receipts.ReceiptMessage, error) {
	return c.httpConn.TransferToken(&token, &tokens.TransferRequest{
		From:   from,
		To:     to,
		Amount: hexAmount(amount),
	})
}

// Receipt returns the receipt of the committed operation with sequence
// number seq.
func (c *Client) Receipt(seq uint64) (*receipts.ReceiptMessage, error) {
	return c.httpConn.GetReceipt(seq)
}

// BestReceipt returns the receipt of the latest committed operation.
func (c *Client) BestReceipt() (*receipts.ReceiptMessage, error) {
	return c.httpConn.GetBestReceipt()
}

// FilterEvents filters committed events.
func (c *Client) FilterEvents(req *logs.EventFilter) ([]*logs.FilteredEvent, error) {
	return c.httpConn.FilterEvents(req)
}

// FilterTransfers filters committed token transfers.
func (c *Client) FilterTransfers(req *logs.TransferFilter) ([]*logs.FilteredTransfer, error) {
	return c.httpConn.FilterTransfers(req)
}

// SubscribeReceipts streams receipts committed after position pos. An empty
// pos starts at the latest committed operation.
func (c *Client) SubscribeReceipts(pos string) (<-chan common.EventWrapper[*receipts.ReceiptMessage], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	return c.wsConn.SubscribeReceipts(pos)
}

func hexAmount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	h := math.HexOrDecimal256(*v)
	return &h
}
