//go:build linux

package cmd

import (
	"github.com/hodgesds/perf-utils"
	"go.uber.org/zap"
)

// measurePerf counts the instructions retired by the thread driving the
// solve. Counter setup failures are logged and the solve runs unmeasured.
func measurePerf(logger *zap.Logger, run func() error) (err error) {
	var ran bool
	pv, perr := perf.CPUInstructions(func() error {
		ran = true
		err = run()
		return err
	})
	switch {
	case !ran:
		logger.Warn("perf counters unavailable", zap.Error(perr))
		return run()
	case err != nil:
		return
	case perr != nil:
		logger.Warn("reading perf counters", zap.Error(perr))
		return
	}
	logger.Info("perf counters",
		zap.Uint64("instructions", pv.Value),
		zap.Uint64("time_enabled_ns", pv.TimeEnabled),
		zap.Uint64("time_running_ns", pv.TimeRunning))
	return
}
