// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakers exposes staking records and the per-account operations.
package stakers

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/api/restutil"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/runtime"
)

type Stakers struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Stakers {
	return &Stakers{rt}
}

func (s *Stakers) handleGetStakers(w http.ResponseWriter, _ *http.Request) error {
	statuses, err := s.rt.Stakers()
	if err != nil {
		return err
	}
	out := make([]*Staker, len(statuses))
	for i, status := range statuses {
		out[i] = convertStaker(status)
	}
	return restutil.WriteJSON(w, out)
}

func (s *Stakers) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	status, err := s.rt.Staker(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertStaker(status))
}

func (s *Stakers) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var body DepositRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: must be set"))
	}
	rec, err := s.rt.Deposit(addr, (*big.Int)(body.Amount))
	if err != nil {
		return restutil.ConvertRevert(err)
	}
	return restutil.WriteJSON(w, receipts.Convert(rec))
}

func (s *Stakers) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	rec, err := s.rt.Withdraw(addr)
	if err != nil {
		return restutil.ConvertRevert(err)
	}
	return restutil.WriteJSON(w, receipts.Convert(rec))
}

func (s *Stakers) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	rec, err := s.rt.Claim(addr)
	if err != nil {
		return restutil.ConvertRevert(err)
	}
	return restutil.WriteJSON(w, receipts.Convert(rec))
}

func parseAddress(req *http.Request) (freyr.Address, error) {
	addr, err := freyr.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return freyr.Address{}, restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func (s *Stakers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /stakers").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStakers))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStaker))
	sub.Path("/{address}/deposit").
		Methods(http.MethodPost).
		Name("POST /stakers/{address}/deposit").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleDeposit))
	sub.Path("/{address}/withdraw").
		Methods(http.MethodPost).
		Name("POST /stakers/{address}/withdraw").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("POST /stakers/{address}/claim").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleClaim))
}
