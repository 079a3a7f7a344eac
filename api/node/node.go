// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node reports build and liveness info of the serving process.
package node

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/freyrlabs/freyr/api/restutil"
	"github.com/freyrlabs/freyr/runtime"
)

// Info describes the running node.
type Info struct {
	Version      string `json:"version"`
	StepInterval uint64 `json:"stepInterval"`
	Step         uint64 `json:"step"`
	Uptime       uint64 `json:"uptime"`
}

type Node struct {
	rt           *runtime.Runtime
	version      string
	stepInterval uint64
	start        time.Time
}

func New(rt *runtime.Runtime, version string, stepInterval uint64) *Node {
	return &Node{
		rt:           rt,
		version:      version,
		stepInterval: stepInterval,
		start:        time.Now(),
	}
}

func (n *Node) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	step, err := n.rt.Step()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Info{
		Version:      n.version,
		StepInterval: n.stepInterval,
		Step:         step,
		Uptime:       uint64(time.Since(n.start).Seconds()),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /node").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleGetInfo))
}
