// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health tracks whether the ledger keeps making step progress.
package health

import (
	"sync"
	"time"

	"github.com/freyrlabs/freyr/freyr"
)

// delayBuffer grace period on top of the expected step interval before the
// ledger counts as stalled.
const delayBuffer = 5 * time.Second

// DefaultMaxTimeBetweenSteps is the default staleness bound for step
// ingestion.
var DefaultMaxTimeBetweenSteps = time.Duration(freyr.StepInterval)*time.Second + delayBuffer

// StepIngestion reports the latest observed step and when it was observed.
type StepIngestion struct {
	Step      uint64     `json:"step"`
	Timestamp *time.Time `json:"timestamp"`
}

// Status is the health snapshot served to operators.
type Status struct {
	Healthy       bool           `json:"healthy"`
	StepIngestion *StepIngestion `json:"stepIngestion"`
	Bootstrapped  bool           `json:"bootstrapped"`
}

// Health records step progress signals from the step scheduler.
type Health struct {
	lock         sync.RWMutex
	newStep      time.Time
	step         uint64
	bootstrapped bool
}

// NewStep records that the ledger advanced to step.
func (h *Health) NewStep(step uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newStep = time.Now()
	h.step = step
}

// Bootstrapped marks the node as done loading genesis and ready to serve.
func (h *Health) Bootstrapped() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.bootstrapped = true
}

// Status reports whether a step was observed within maxTimeBetweenSteps.
func (h *Health) Status(maxTimeBetweenSteps time.Duration) (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ingestion := &StepIngestion{
		Step:      h.step,
		Timestamp: &h.newStep,
	}

	healthy := time.Since(h.newStep) <= maxTimeBetweenSteps && h.bootstrapped

	return &Status{
		Healthy:       healthy,
		StepIngestion: ingestion,
		Bootstrapped:  h.bootstrapped,
	}, nil
}
