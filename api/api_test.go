// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/api/ledger"
	"github.com/freyrlabs/freyr/api/node"
	"github.com/freyrlabs/freyr/api/stakers"
	"github.com/freyrlabs/freyr/metrics"
	"github.com/freyrlabs/freyr/test/testledger"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestMetricsMiddleware(t *testing.T) {
	led, err := testledger.NewDefault()
	require.NoError(t, err)
	defer led.Close()

	router := mux.NewRouter()
	stakers.New(led.Runtime()).Mount(router, "/stakers")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	_, code := httpGet(t, ts.URL+"/stakers")
	assert.Equal(t, 200, code)
	_, code = httpGet(t, ts.URL+"/stakers/not-an-address")
	assert.Equal(t, 400, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	assert.Nil(t, err)

	m := families["freyr_metrics_api_request_count"].GetMetric()
	assert.Equal(t, 2, len(m), "should be 2 metric entries")
	assert.Equal(t, float64(1), m[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m[1].GetCounter().GetValue())

	labels := m[0].GetLabel()
	assert.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "200", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "path", labels[2].GetName())
	assert.Equal(t, "GET /stakers", labels[2].GetValue())

	labels = m[1].GetLabel()
	assert.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "400", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "path", labels[2].GetName())
	assert.Equal(t, "GET /stakers/{address}", labels[2].GetValue())
}

func TestAPIAssembly(t *testing.T) {
	led, err := testledger.NewDefault()
	require.NoError(t, err)
	defer led.Close()

	handler, closer := New(
		led.Runtime(),
		led.LogDB(),
		ledger.InfoFromGenesis(led.Genesis(), true),
		Options{
			Version:        "0.1.0-test",
			AllowedOrigins: "*",
			BacktraceLimit: 1000,
			LogsLimit:      1000,
		},
	)
	defer closer()
	ts := httptest.NewServer(handler)
	defer ts.Close()

	// root redirects to the bundled swagger ui
	body, code := httpGet(t, ts.URL+"/")
	assert.Equal(t, 200, code)
	assert.Contains(t, string(body), "swagger-ui")

	body, code = httpGet(t, ts.URL+"/doc/freyr.yaml")
	assert.Equal(t, 200, code)
	assert.Contains(t, string(body), "openapi")

	body, code = httpGet(t, ts.URL+"/ledger")
	require.Equal(t, 200, code)
	var status ledger.Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, "devnet", status.Network)
	assert.Equal(t, led.Genesis().ID(), status.GenesisID)
	assert.Equal(t, uint64(0), status.Step)

	// on-demand mode exposes the manual step endpoint
	res, err := http.Post(ts.URL+"/ledger/step", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 200, res.StatusCode)

	body, code = httpGet(t, ts.URL+"/ledger")
	require.Equal(t, 200, code)
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, uint64(1), status.Step)

	body, code = httpGet(t, ts.URL+"/node")
	require.Equal(t, 200, code)
	var info node.Info
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "0.1.0-test", info.Version)
	assert.Equal(t, uint64(1), info.StepInterval)
	assert.Equal(t, uint64(1), info.Step)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}
