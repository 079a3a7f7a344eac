// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/freyrlabs/freyr/api/doc"
	"github.com/freyrlabs/freyr/api/ledger"
	"github.com/freyrlabs/freyr/api/logs"
	"github.com/freyrlabs/freyr/api/middleware"
	"github.com/freyrlabs/freyr/api/node"
	"github.com/freyrlabs/freyr/api/receipts"
	"github.com/freyrlabs/freyr/api/stakers"
	"github.com/freyrlabs/freyr/api/subscriptions"
	"github.com/freyrlabs/freyr/api/tokens"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/log"
	"github.com/freyrlabs/freyr/logdb"
	"github.com/freyrlabs/freyr/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	Version         string
	StepInterval    uint64
	AllowedOrigins  string
	BacktraceLimit  uint64
	PprofOn         bool
	SkipLogs        bool
	EnableReqLogger bool
	EnableMetrics   bool
	LogsLimit       uint64
}

// New return api router
func New(
	rt *runtime.Runtime,
	logDB *logdb.LogDB,
	info ledger.Info,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	// to serve swagger and api docs
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)

	// redirect swagger-ui
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/swagger-ui/", http.StatusTemporaryRedirect)
		})

	stepInterval := opts.StepInterval
	if stepInterval == 0 {
		stepInterval = freyr.StepInterval
	}

	ledger.New(rt, info).
		Mount(router, "/ledger")
	stakers.New(rt).
		Mount(router, "/stakers")
	tokens.New(rt).
		Mount(router, "/tokens")
	receipts.New(rt).
		Mount(router, "/receipts")
	node.New(rt, opts.Version, stepInterval).
		Mount(router, "/node")

	if !opts.SkipLogs {
		logs.New(logDB, opts.LogsLimit).
			Mount(router, "/logs")
	}
	subs := subscriptions.New(rt, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := http.Handler(handlers.CompressHandler(router))
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-freyr-ver"}),
	)(handler)

	if opts.EnableReqLogger {
		enabled := new(atomic.Bool)
		enabled.Store(true)
		handler = middleware.RequestLoggerMiddleware(logger, enabled, 0, false)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
