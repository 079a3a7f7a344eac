// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NewStep(t *testing.T) {
	h := &Health{}

	h.NewStep(7)

	if h.step != 7 {
		t.Errorf("expected step to be 7, got %v", h.step)
	}
	if time.Since(h.newStep) > time.Second {
		t.Errorf("newStep timestamp is not recent")
	}

	h.Bootstrapped()

	status, err := h.Status(DefaultMaxTimeBetweenSteps)
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

func TestHealth_NotBootstrapped(t *testing.T) {
	h := &Health{}
	h.NewStep(1)

	status, err := h.Status(DefaultMaxTimeBetweenSteps)
	require.NoError(t, err)

	assert.False(t, status.Healthy)
	assert.False(t, status.Bootstrapped)
}

func TestHealth_Status(t *testing.T) {
	h := &Health{}

	h.NewStep(3)
	h.Bootstrapped()

	status, err := h.Status(time.Second)
	require.NoError(t, err)

	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(3), status.StepIngestion.Step)
	if status.StepIngestion.Timestamp == nil || time.Since(*status.StepIngestion.Timestamp) > time.Second {
		t.Errorf("step ingestion timestamp is not recent")
	}
	assert.True(t, status.Bootstrapped)
}

func TestHealth_Stalled(t *testing.T) {
	h := &Health{}
	h.Bootstrapped()

	h.lock.Lock()
	h.newStep = time.Now().Add(-time.Minute)
	h.lock.Unlock()

	status, err := h.Status(DefaultMaxTimeBetweenSteps)
	require.NoError(t, err)
	assert.False(t, status.Healthy)
}
