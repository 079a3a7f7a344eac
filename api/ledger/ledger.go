// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger exposes ledger-wide status and the owner-gated operations.
package ledger

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/api/restutil"
	"github.com/freyrlabs/freyr/runtime"
)

type Ledger struct {
	rt   *runtime.Runtime
	info Info
}

// New creates the ledger endpoint group. Info describes the network the
// runtime was built from.
func New(rt *runtime.Runtime, info Info) *Ledger {
	return &Ledger{rt, info}
}

func (l *Ledger) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	global, err := l.rt.Global()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertStatus(l.info, l.rt.Seq(), global))
}

func (l *Ledger) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	rec, err := l.rt.DistributeAll(body.Caller)
	if err != nil {
		return restutil.ConvertRevert(err)
	}
	return restutil.WriteJSON(w, receipts.Convert(rec))
}

func (l *Ledger) handleSetFee(w http.ResponseWriter, req *http.Request) error {
	var body SetFeeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Percent == nil {
		return restutil.BadRequest(errors.New("percent: must be set"))
	}
	rec, err := l.rt.SetFeePercent(body.Caller, (*big.Int)(body.Percent))
	if err != nil {
		return restutil.ConvertRevert(err)
	}
	return restutil.WriteJSON(w, receipts.Convert(rec))
}

func (l *Ledger) handleAdvanceStep(w http.ResponseWriter, _ *http.Request) error {
	step, err := l.rt.AdvanceStep()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &StepResult{Step: step})
}

func (l *Ledger) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /ledger").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleGetStatus))
	sub.Path("/distribute").
		Methods(http.MethodPost).
		Name("POST /ledger/distribute").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleDistribute))
	sub.Path("/fee").
		Methods(http.MethodPost).
		Name("POST /ledger/fee").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleSetFee))
	if l.info.OnDemandStep {
		sub.Path("/step").
			Methods(http.MethodPost).
			Name("POST /ledger/step").
			HandlerFunc(restutil.WrapHandlerFunc(l.handleAdvanceStep))
	}
}
