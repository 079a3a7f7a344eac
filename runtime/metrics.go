// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/freyrlabs/freyr/metrics"

var (
	metricOpCount     = metrics.LazyLoadCounterVec("operation_count", []string{"kind", "status"})
	metricOpDuration  = metrics.LazyLoadHistogramVec("operation_duration_ms", []string{"kind"}, metrics.Bucket10s)
	metricCurrentStep = metrics.LazyLoadGauge("current_step")
	metricStakerCount = metrics.LazyLoadGauge("staker_count")
)
