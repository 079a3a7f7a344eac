// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The singleton can only move from noop to Prometheus, so both phases live
// in one test.
func TestMetrics(t *testing.T) {
	// the default implementation discards everything
	assert.Nil(t, HTTPHandler())
	Counter("noop_count").Add(1)
	Gauge("noop_gauge").Set(42)

	InitializePrometheusMetrics()

	Counter("ops_total").Add(3)
	Counter("ops_total").Add(2)
	Gauge("current_step").Set(7)
	CounterVec("ops_by_kind_total", []string{"kind"}).
		AddWithLabel(4, map[string]string{"kind": "deposit"})
	GaugeVec("balance_by_token", []string{"token"}).
		SetWithLabel(9, map[string]string{"token": "stake"})
	Histogram("op_duration_ms", Bucket10s).Observe(1200)
	HistogramVec("request_duration_ms", []string{"code"}, BucketHTTPReqs).
		ObserveWithLabels(300, map[string]string{"code": "200"})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	cf := byName["freyr_metrics_ops_total"]
	require.NotNil(t, cf)
	assert.Equal(t, float64(5), cf.GetMetric()[0].GetCounter().GetValue())

	gf := byName["freyr_metrics_current_step"]
	require.NotNil(t, gf)
	assert.Equal(t, float64(7), gf.GetMetric()[0].GetGauge().GetValue())

	cvf := byName["freyr_metrics_ops_by_kind_total"]
	require.NotNil(t, cvf)
	assert.Equal(t, float64(4), cvf.GetMetric()[0].GetCounter().GetValue())

	hf := byName["freyr_metrics_op_duration_ms"]
	require.NotNil(t, hf)
	assert.Equal(t, uint64(1), hf.GetMetric()[0].GetHistogram().GetSampleCount())

	// meters are cached per name
	Counter("ops_total").Add(1)
	families, err = prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "freyr_metrics_ops_total" {
			assert.Equal(t, float64(6), mf.GetMetric()[0].GetCounter().GetValue())
		}
	}

	// the handler serves the registry
	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()
	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "freyr_metrics_ops_total")
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	lazy := LazyLoad(func() int {
		calls++
		return 42
	})
	assert.Zero(t, calls)
	assert.Equal(t, 42, lazy())
	assert.Equal(t, 42, lazy())
	assert.Equal(t, 1, calls)
}
