// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stepper

import (
	"context"
	"time"

	"github.com/freyrlabs/freyr/co"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/health"
	"github.com/freyrlabs/freyr/log"
	"github.com/freyrlabs/freyr/runtime"
)

var logger = log.WithContext("pkg", "stepper")

type Options struct {
	// Interval wall-clock seconds between two accrual steps.
	Interval uint64
	// OnDemand steps advance through the API instead of the wall clock.
	OnDemand bool
}

// Stepper drives reward accrual for a standalone node.
type Stepper struct {
	ledger  *runtime.Runtime
	health  *health.Health
	options Options
}

// New returns Stepper instance
func New(ledger *runtime.Runtime, health *health.Health, options Options) *Stepper {
	if options.Interval == 0 {
		options.Interval = freyr.StepInterval
	}
	return &Stepper{
		ledger:  ledger,
		health:  health,
		options: options,
	}
}

// Run runs the step scheduler until ctx is done.
func (s *Stepper) Run(ctx context.Context) error {
	goes := &co.Goes{}

	defer func() {
		<-ctx.Done()
		goes.Wait()
	}()

	if s.options.OnDemand {
		logger.Info("steps advance on demand")
		goes.Go(func() {
			s.watch(ctx)
		})
		return nil
	}

	logger.Info("prepared to advance steps", "interval", s.options.Interval)

	goes.Go(func() {
		s.loop(ctx)
	})

	return nil
}

func (s *Stepper) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval stepping service......")
			return
		case <-time.After(time.Duration(1) * time.Second):
			if left := uint64(time.Now().Unix()) % s.options.Interval; left == 0 {
				step, err := s.ledger.AdvanceStep()
				if err != nil {
					logger.Error("failed to advance step", "err", err)
					continue
				}
				s.health.NewStep(step)
				logger.Debug("step advanced", "step", step)
			}
		}
	}
}

// watch follows steps committed through the on-demand endpoint and feeds
// them to the health tracker.
func (s *Stepper) watch(ctx context.Context) {
	ticker := s.ledger.NewTicker()

	lastStep, err := s.ledger.Step()
	if err != nil {
		logger.Error("failed to read current step", "err", err)
	} else {
		s.health.NewStep(lastStep)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping on-demand step watcher......")
			return
		case <-ticker.C():
			step, err := s.ledger.Step()
			if err != nil {
				logger.Error("failed to read current step", "err", err)
				continue
			}
			if step != lastStep {
				lastStep = step
				s.health.NewStep(step)
				logger.Debug("step advanced", "step", step)
			}
		}
	}
}
