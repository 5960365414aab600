//go:build !linux

package cmd

import (
	"go.uber.org/zap"
)

func measurePerf(logger *zap.Logger, run func() error) error {
	logger.Warn("perf counters are only available on linux")
	return run()
}
