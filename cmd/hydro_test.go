package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fvhydro/model_problems/Hydro"
)

func writeInput(t *testing.T, dir, body string) string {
	fname := filepath.Join(dir, "input.yaml")
	require.NoError(t, os.WriteFile(fname, []byte(body), 0o644))
	return fname
}

func TestRunHydro(t *testing.T) {
	dir := t.TempDir()
	input := `
Title: Test Case
Prefix: box
MaxSteps: 6
OutputFreq: 3
FluxType: rusanov
Mesh:
  Type: box
  Dimensions: [6, 4]
  Lengths: [1.5, 1.0]
InitType: shockbox
DefaultBC: wall
BCs:
  Outflow:
    2: {}
`
	{ // Snapshots and metrics
		hr := &HydroRun{
			InputFile:   writeInput(t, dir, input),
			OutputDir:   filepath.Join(dir, "out"),
			ProcLimit:   2,
			Perf:        true,
			MetricsFile: filepath.Join(dir, "hydro.prom"),
			LogEnv:      "prod",
			LogLevel:    "error",
		}
		require.NoError(t, RunHydro(context.Background(), hr))
		for _, step := range []int{0, 3, 6} {
			for rank := 0; rank < 2; rank++ {
				assert.FileExists(t, filepath.Join(hr.OutputDir, Hydro.SnapshotName("box", "dat", rank, step)))
			}
		}
		b, err := os.ReadFile(hr.MetricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(b), "fvhydro_steps_total 6")
		assert.Contains(t, string(b), "fvhydro_cells 24")
	}
	{ // Configuration errors surface before the solve
		hr := &HydroRun{InputFile: writeInput(t, dir, input+"Gamma: 0.5\n"), LogEnv: "prod"}
		assert.ErrorIs(t, RunHydro(context.Background(), hr), Hydro.ErrConfiguration)
		hr = &HydroRun{InputFile: writeInput(t, dir, input), LogEnv: "prod", Profile: "block"}
		assert.ErrorIs(t, RunHydro(context.Background(), hr), Hydro.ErrConfiguration)
		hr = &HydroRun{InputFile: writeInput(t, dir, input), LogEnv: "verbose"}
		assert.Error(t, RunHydro(context.Background(), hr))
		hr = &HydroRun{InputFile: filepath.Join(dir, "missing.yaml"), LogEnv: "prod"}
		assert.Error(t, RunHydro(context.Background(), hr))
	}
	{ // Cancelled runs stop between steps
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		hr := &HydroRun{InputFile: writeInput(t, dir, input), LogEnv: "prod", LogLevel: "error"}
		assert.ErrorIs(t, RunHydro(ctx, hr), context.Canceled)
	}
}
