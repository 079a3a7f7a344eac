// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client to interact with a Freyr node.
// It mirrors the node's REST surface: ledger status, stakers, tokens,
// receipts and log filters.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/freyrlabs/freyr/api/ledger"
	"github.com/freyrlabs/freyr/api/logs"
	"github.com/freyrlabs/freyr/api/node"
	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/api/stakers"
	"github.com/freyrlabs/freyr/api/tokens"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/freyrclient/common"
)

// Client is the HTTP client for a single Freyr node.
type Client struct {
	url       string
	c         *http.Client
	genesisID atomic.Pointer[freyr.Bytes32]
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// GetLedgerStatus retrieves the ledger-wide status.
func (c *Client) GetLedgerStatus() (*ledger.Status, error) {
	body, err := c.httpGET(c.url + "/ledger")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve ledger status - %w", err)
	}

	var status ledger.Status
	if err = json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("unable to unmarshal ledger status - %w", err)
	}

	c.genesisID.Store(&status.GenesisID)
	return &status, nil
}

// GetGenesisID retrieves the genesis ID of the node's ledger. The value is
// immutable, so it is cached after the first fetch.
func (c *Client) GetGenesisID() (freyr.Bytes32, error) {
	if id := c.genesisID.Load(); id != nil {
		return *id, nil
	}
	status, err := c.GetLedgerStatus()
	if err != nil {
		return freyr.Bytes32{}, err
	}
	return status.GenesisID, nil
}

// DistributeAll asks for a ledger-wide settlement at the current step.
func (c *Client) DistributeAll(req *ledger.DistributeRequest) (*receipts.ReceiptMessage, error) {
	body, err := c.httpPOST(c.url+"/ledger/distribute", req)
	if err != nil {
		return nil, fmt.Errorf("unable to distribute rewards - %w", err)
	}
	return unmarshalReceipt(body)
}

// SetFeePercent adjusts the claim fee percent.
func (c *Client) SetFeePercent(req *ledger.SetFeeRequest) (*receipts.ReceiptMessage, error) {
	body, err := c.httpPOST(c.url+"/ledger/fee", req)
	if err != nil {
		return nil, fmt.Errorf("unable to set fee percent - %w", err)
	}
	return unmarshalReceipt(body)
}

// AdvanceStep moves the ledger clock one step forward. On-demand nodes only.
func (c *Client) AdvanceStep() (*ledger.StepResult, error) {
	body, err := c.httpPOST(c.url+"/ledger/step", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to advance step - %w", err)
	}

	var result ledger.StepResult
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unable to unmarshal step result - %w", err)
	}

	return &result, nil
}

// GetNodeInfo retrieves build and liveness info of the node.
func (c *Client) GetNodeInfo() (*node.Info, error) {
	body, err := c.httpGET(c.url + "/node")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve node info - %w", err)
	}

	var info node.Info
	if err = json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("unable to unmarshal node info - %w", err)
	}

	return &info, nil
}

// GetStakers retrieves the current staker set.
func (c *Client) GetStakers() ([]*stakers.Staker, error) {
	body, err := c.httpGET(c.url + "/stakers")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stakers - %w", err)
	}

	var set []*stakers.Staker
	if err = json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stakers - %w", err)
	}

	return set, nil
}

// GetStaker retrieves the staking record of the given address.
func (c *Client) GetStaker(addr *freyr.Address) (*stakers.Staker, error) {
	body, err := c.httpGET(c.url + "/stakers/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve staker - %w", err)
	}

	var staker stakers.Staker
	if err = json.Unmarshal(body, &staker); err != nil {
		return nil, fmt.Errorf("unable to unmarshal staker - %w", err)
	}

	return &staker, nil
}

// Deposit stakes an amount for the addressed account.
func (c *Client) Deposit(addr *freyr.Address, req *stakers.DepositRequest) (*receipts.ReceiptMessage, error) {
	body, err := c.httpPOST(c.url+"/stakers/"+addr.String()+"/deposit", req)
	if err != nil {
		return nil, fmt.Errorf("unable to deposit - %w", err)
	}
	return unmarshalReceipt(body)
}

// Withdraw returns the addressed account's whole staking balance.
func (c *Client) Withdraw(addr *freyr.Address) (*receipts.ReceiptMessage, error) {
	body, err := c.httpPOST(c.url+"/stakers/"+addr.String()+"/withdraw", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to withdraw - %w", err)
	}
	return unmarshalReceipt(body)
}

// Claim pays out the addressed account's pending rewards minus the fee.
func (c *Client) Claim(addr *freyr.Address) (*receipts.ReceiptMessage, error) {
	body, err := c.httpPOST(c.url+"/stakers/"+addr.String()+"/claim", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to claim - %w", err)
	}
	return unmarshalReceipt(body)
}

// GetTokens retrieves both ledger assets.
func (c *Client) GetTokens() ([]*tokens.Token, error) {
	body, err := c.httpGET(c.url + "/tokens")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve tokens - %w", err)
	}

	var toks []*tokens.Token
	if err = json.Unmarshal(body, &toks); err != nil {
		return nil, fmt.Errorf("unable to unmarshal tokens - %w", err)
	}

	return toks, nil
}

// GetToken retrieves one ledger asset by address.
func (c *Client) GetToken(addr *freyr.Address) (*tokens.Token, error) {
	body, err := c.httpGET(c.url + "/tokens/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token - %w", err)
	}

	var tok tokens.Token
	if err = json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("unable to unmarshal token - %w", err)
	}

	return &tok, nil
}

// GetTokenBalance retrieves the holder's balance of the given token.
func (c *Client) GetTokenBalance(token, holder *freyr.Address) (*tokens.Balance, error) {
	body, err := c.httpGET(c.url + "/tokens/" + token.String() + "/accounts/" + holder.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token balance - %w", err)
	}

	var balance tokens.Balance
	if err = json.Unmarshal(body, &balance); err != nil {
		return nil, fmt.Errorf("unable to unmarshal token balance - %w", err)
	}

	return &balance, nil
}

// GetTokenAllowance retrieves the spender's allowance over the holder's
// balance of the given token.
func (c *Client) GetTokenAllowance(token, holder, spender *freyr.Address) (*tokens.Allowance, error) {
	body, err := c.httpGET(c.url + "/tokens/" + token.String() + "/accounts/" + holder.String() + "/allowances/" + spender.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token allowance - %w", err)
	}

	var allowance tokens.Allowance
	if err = json.Unmarshal(body, &allowance); err != nil {
		return nil, fmt.Errorf("unable to unmarshal token allowance - %w", err)
	}

	return &allowance, nil
}

// ApproveToken sets a spender allowance on the given token.
func (c *Client) ApproveToken(token *freyr.Address, req *tokens.ApproveRequest) (*receipts.ReceiptMessage, error) {
	body, err := c.httpPOST(c.url+"/tokens/"+token.String()+"/approve", req)
	if err != nil {
		return nil, fmt.Errorf("unable to approve - %w", err)
	}
	return unmarshalReceipt(body)
}

// TransferToken moves tokens between accounts.
func (c *Client) TransferToken(token *freyr.Address, req *tokens.TransferRequest) (*receipts.ReceiptMessage, error) {
	body, err := c.httpPOST(c.url+"/tokens/"+token.String()+"/transfer", req)
	if err != nil {
		return nil, fmt.Errorf("unable to transfer - %w", err)
	}
	return unmarshalReceipt(body)
}

// GetReceipt retrieves the receipt of the committed operation with the given
// sequence number. Operations pruned from the node's backlog report
// common.ErrNotFound.
func (c *Client) GetReceipt(seq uint64) (*receipts.ReceiptMessage, error) {
	return c.getReceipt(strconv.FormatUint(seq, 10))
}

// GetBestReceipt retrieves the receipt of the latest committed operation.
func (c *Client) GetBestReceipt() (*receipts.ReceiptMessage, error) {
	return c.getReceipt("best")
}

func (c *Client) getReceipt(seq string) (*receipts.ReceiptMessage, error) {
	body, err := c.httpGET(c.url + "/receipts/" + seq)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch receipt - %w", err)
	}

	if len(body) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, common.ErrNotFound
	}

	return unmarshalReceipt(body)
}

// FilterEvents filters committed events based on the provided filter.
func (c *Client) FilterEvents(req *logs.EventFilter) ([]*logs.FilteredEvent, error) {
	body, err := c.httpPOST(c.url+"/logs/event", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}

	var filtered []*logs.FilteredEvent
	if err = json.Unmarshal(body, &filtered); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}

	return filtered, nil
}

// FilterTransfers filters committed token transfers based on the provided
// filter.
func (c *Client) FilterTransfers(req *logs.TransferFilter) ([]*logs.FilteredTransfer, error) {
	body, err := c.httpPOST(c.url+"/logs/transfer", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter transfers - %w", err)
	}

	var filtered []*logs.FilteredTransfer
	if err = json.Unmarshal(body, &filtered); err != nil {
		return nil, fmt.Errorf("unable to unmarshal transfers - %w", err)
	}

	return filtered, nil
}

// RawHTTPPost sends a raw HTTP POST request to the node.
func (c *Client) RawHTTPPost(path string, calldata any) ([]byte, int, error) {
	var data []byte
	var err error

	if raw, ok := calldata.([]byte); ok {
		data = raw
	} else {
		data, err = json.Marshal(calldata)
		if err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}

	return c.rawHTTPRequest("POST", c.url+path, bytes.NewBuffer(data))
}

// RawHTTPGet sends a raw HTTP GET request to the node.
func (c *Client) RawHTTPGet(path string) ([]byte, int, error) {
	return c.rawHTTPRequest("GET", c.url+path, nil)
}

func unmarshalReceipt(body []byte) (*receipts.ReceiptMessage, error) {
	var rec receipts.ReceiptMessage
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}
	return &rec, nil
}
