// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package receipts serves committed operation receipts out of the runtime's
// in-memory backlog.
package receipts

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/api/restutil"
	"github.com/freyrlabs/freyr/runtime"
)

type Receipts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Receipts {
	return &Receipts{rt}
}

// parseSeq resolves a sequence path segment; "best" means the latest
// committed operation.
func (r *Receipts) parseSeq(s string) (uint64, error) {
	if s == "best" {
		return r.rt.Seq(), nil
	}
	return strconv.ParseUint(s, 10, 64)
}

func (r *Receipts) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	seq, err := r.parseSeq(mux.Vars(req)["seq"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "seq"))
	}
	rec, ok := r.rt.Receipt(seq)
	if !ok {
		// pruned from the backlog or not yet committed
		return restutil.WriteJSON(w, nil)
	}
	return restutil.WriteJSON(w, Convert(rec))
}

func (r *Receipts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{seq}").
		Methods(http.MethodGet).
		Name("GET /receipts/{seq}").
		HandlerFunc(restutil.WrapHandlerFunc(r.handleGetReceipt))
}
