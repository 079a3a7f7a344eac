// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/api/admin/loglevel"
	"github.com/freyrlabs/freyr/health"
	"github.com/freyrlabs/freyr/metrics"
)

func TestStartAdminServer(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)

	url, closeFunc, err := StartAdminServer("127.0.0.1:0", &logLevel, &health.Health{})
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Get(url + "/loglevel")
	require.NoError(t, err)
	var lvl loglevel.Response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&lvl))
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "INFO", lvl.CurrentLevel)

	res, err = http.Post(url+"/loglevel", "application/json", bytes.NewBufferString(`{"level":"debug"}`))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(res.Body).Decode(&lvl))
	res.Body.Close()
	assert.Equal(t, "DEBUG", lvl.CurrentLevel)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	// health endpoint rides the same listener, unhealthy before bootstrap
	res, err = http.Get(url + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestStartAdminServerBadAddr(t *testing.T) {
	var logLevel slog.LevelVar
	_, _, err := StartAdminServer("256.256.256.256:0", &logLevel, &health.Health{})
	assert.Error(t, err)
}

func TestStartMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(1)

	url, closeFunc, err := StartMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "freyr_metrics_httpserver_test_count")
}

func TestStartMetricsServerBadAddr(t *testing.T) {
	_, _, err := StartMetricsServer("256.256.256.256:0")
	assert.Error(t, err)
}
