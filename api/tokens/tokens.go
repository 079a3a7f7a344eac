// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tokens exposes the two ledger assets: balances, allowances and
// direct token operations.
package tokens

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/api/restutil"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/runtime"
	"github.com/freyrlabs/freyr/token"
)

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func (t *Tokens) handleGetTokens(w http.ResponseWriter, _ *http.Request) error {
	out := make([]*Token, 0, 2)
	for _, tok := range []*token.Token{t.rt.StakeToken(), t.rt.RewardToken()} {
		converted, err := convertToken(tok)
		if err != nil {
			return err
		}
		out = append(out, converted)
	}
	return restutil.WriteJSON(w, out)
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	tok, err := t.tokenOf(req)
	if err != nil {
		return err
	}
	converted, err := convertToken(tok)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, converted)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	tok, err := t.tokenOf(req)
	if err != nil {
		return err
	}
	holder, err := parseAddress(req, "holder")
	if err != nil {
		return err
	}
	balance, err := tok.BalanceOf(holder)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Balance{math.HexOrDecimal256(*balance)})
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	tok, err := t.tokenOf(req)
	if err != nil {
		return err
	}
	holder, err := parseAddress(req, "holder")
	if err != nil {
		return err
	}
	spender, err := parseAddress(req, "spender")
	if err != nil {
		return err
	}
	allowance, err := tok.Allowance(holder, spender)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Allowance{math.HexOrDecimal256(*allowance)})
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	tok, err := t.tokenOf(req)
	if err != nil {
		return err
	}
	var body ApproveRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: must be set"))
	}
	rec, err := t.rt.Approve(tok.Address(), body.Owner, body.Spender, (*big.Int)(body.Amount))
	if err != nil {
		return restutil.ConvertRevert(err)
	}
	return restutil.WriteJSON(w, receipts.Convert(rec))
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	tok, err := t.tokenOf(req)
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: must be set"))
	}
	rec, err := t.rt.Transfer(tok.Address(), body.From, body.To, (*big.Int)(body.Amount))
	if err != nil {
		return restutil.ConvertRevert(err)
	}
	return restutil.WriteJSON(w, receipts.Convert(rec))
}

func (t *Tokens) tokenOf(req *http.Request) (*token.Token, error) {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return nil, err
	}
	tok, err := t.rt.Token(addr)
	if err != nil {
		return nil, restutil.BadRequest(err)
	}
	return tok, nil
}

func parseAddress(req *http.Request, name string) (freyr.Address, error) {
	addr, err := freyr.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return freyr.Address{}, restutil.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

func convertToken(tok *token.Token) (*Token, error) {
	supply, err := tok.TotalSupply()
	if err != nil {
		return nil, err
	}
	return &Token{
		Address:     tok.Address(),
		Name:        tok.Name(),
		Symbol:      tok.Symbol(),
		TotalSupply: math.HexOrDecimal256(*supply),
	}, nil
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /tokens").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetTokens))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/accounts/{holder}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/accounts/{holder}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{address}/accounts/{holder}/allowances/{spender}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/accounts/{holder}/allowances/{spender}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetAllowance))
	sub.Path("/{address}/approve").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/approve").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleApprove))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/transfer").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleTransfer))
}
