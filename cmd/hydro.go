/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/fvhydro/InputParameters"
	"github.com/notargets/fvhydro/metrics"
	"github.com/notargets/fvhydro/model_problems/Hydro"
	"github.com/notargets/fvhydro/utils"
)

type HydroRun struct {
	InputFile   string
	OutputDir   string // overrides the input file when set
	ProcLimit   int    // overrides the input file when > 0
	Profile     string // cpu, mem or empty
	ProfileDir  string
	Perf        bool
	MetricsFile string
	StatusAddr  string
	LogEnv      string
	LogLevel    string
}

const exampleInput = `
########################################
Title: shock box
Prefix: shock_box_2d
CFL: 0.5
FinalTime: 0.2
OutputFreq: 100
OutputDir: output
FluxType: hlle       # hlle | rusanov | average
Mesh:
  Type: box          # box | read
  Dimensions: [10, 10]
  Lengths: [1.0, 1.0]
InitType: shockbox   # uniform | shockbox | sod
DefaultBC: reflective
########################################
`

// HydroCmd represents the hydro command
var HydroCmd = &cobra.Command{
	Use:   "hydro",
	Short: "Run the finite volume hydro solver on a box or SU2 mesh",
	Long: `
Runs the explicit finite volume Euler solver described by a YAML input file,
writing one snapshot file per partition every OutputFreq steps.

fvhydro hydro -I input.yaml --procs 8 --statusAddr :9090`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		hr := &HydroRun{
			InputFile:   viper.GetString("inputConditionsFile"),
			OutputDir:   viper.GetString("outputDir"),
			ProcLimit:   viper.GetInt("procs"),
			Profile:     viper.GetString("profile"),
			ProfileDir:  viper.GetString("profileDir"),
			Perf:        viper.GetBool("perf"),
			MetricsFile: viper.GetString("metricsFile"),
			StatusAddr:  viper.GetString("statusAddr"),
			LogEnv:      viper.GetString("logEnv"),
			LogLevel:    viper.GetString("logLevel"),
		}
		if hr.InputFile == "" {
			fmt.Printf("Example File:%s\n", exampleInput)
			return fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return RunHydro(ctx, hr)
	},
}

func init() {
	rootCmd.AddCommand(HydroCmd)
	HydroCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- FinalTime\n\t- Mesh, ICs and BCs")
	HydroCmd.Flags().StringP("outputDir", "o", "", "directory for snapshot files, overrides OutputDir of the input file")
	HydroCmd.Flags().IntP("procs", "p", 0, "maximum number of partitions, 0 uses the input file or every CPU")
	HydroCmd.Flags().String("profile", "", "write a pprof profile of the solve: cpu or mem")
	HydroCmd.Flags().String("profileDir", ".", "directory for profile output")
	HydroCmd.Flags().Bool("perf", false, "count CPU instructions of the solve with perf events (linux)")
	HydroCmd.Flags().String("metricsFile", "", "write prometheus metrics in textfile format here after the run")
	HydroCmd.Flags().String("statusAddr", "", "serve /metrics and /status on this address during the run, e.g. :9090")
	_ = viper.BindPFlags(HydroCmd.Flags())
}

// RunHydro assembles the solver from the input file and runs it until it
// finishes, fails or ctx is cancelled
func RunHydro(ctx context.Context, hr *HydroRun) (err error) {
	var logger *zap.Logger
	if logger, err = utils.NewLogger(hr.LogEnv, hr.LogLevel); err != nil {
		return
	}
	defer func() { _ = logger.Sync() }()

	ip, err := InputParameters.ReadFile(hr.InputFile)
	if err != nil {
		return
	}
	if hr.OutputDir != "" {
		ip.OutputDir = hr.OutputDir
	}
	if hr.ProcLimit > 0 {
		ip.ProcLimit = hr.ProcLimit
	}
	ip.Print()

	m, err := ip.NewMesh()
	if err != nil {
		return
	}
	if err = m.CheckGeometry(); err != nil {
		return
	}
	m.PrintStatistics()
	e, err := ip.NewEOS()
	if err != nil {
		return
	}
	hctx, err := ip.NewContext(m, e)
	if err != nil {
		return
	}
	ics, err := ip.NewICFunction()
	if err != nil {
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	sm := metrics.NewSolverMetrics(reg)
	if hr.MetricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(hr.MetricsFile, reg); werr != nil {
				logger.Error("writing metrics file", zap.String("file", hr.MetricsFile), zap.Error(werr))
			}
		}()
	}
	if hr.StatusAddr != "" {
		srv := &http.Server{
			Addr:              hr.StatusAddr,
			Handler:           metrics.NewStatusRouter(reg, sm),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if serr := srv.ListenAndServe(); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
				logger.Error("status server", zap.String("addr", hr.StatusAddr), zap.Error(serr))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		logger.Info("serving status", zap.String("addr", hr.StatusAddr))
	}

	solver, err := Hydro.NewSolver(m, hctx, ics, ip.SolverConfig(), logger, sm)
	if err != nil {
		return
	}

	switch hr.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(hr.ProfileDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(hr.ProfileDir), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("%w: unknown profile %q, must be cpu or mem", Hydro.ErrConfiguration, hr.Profile)
	}

	run := func() error { return solver.Run(ctx) }
	if hr.Perf {
		err = measurePerf(logger, run)
	} else {
		err = run()
	}
	if err != nil {
		logger.Error("hydro run failed", zap.String("kind", Hydro.Kind(err)), zap.Error(err))
	}
	return
}
