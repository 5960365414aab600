package Hydro

import (
	"bufio"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/eos"
	"github.com/notargets/fvhydro/mesh"
	"github.com/notargets/fvhydro/metrics"
)

func newTestSolver(t *testing.T, m Mesh, e eos.EOS, it InitType, params map[string]float64,
	cfg SolverConfig) (s *Solver, sm *metrics.SolverMetrics) {
	ctx := closedContext(t, e, FLUX_HLLE, 0.4)
	ics, err := NewICFunction(it, params, 1.4)
	require.NoError(t, err)
	sm = metrics.NewSolverMetrics(prometheus.NewRegistry())
	s, err = NewSolver(m, ctx, ics, cfg, zaptest.NewLogger(t), sm)
	require.NoError(t, err)
	return
}

func countLines(t *testing.T, fname string) (n int) {
	file, err := os.Open(fname)
	require.NoError(t, err)
	defer file.Close()
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		n++
	}
	require.NoError(t, sc.Err())
	return
}

func TestSolverSetup(t *testing.T) {
	gas := newGas(t)
	m, err := mesh.NewBox([]int{4, 4}, []float64{1, 1})
	require.NoError(t, err)
	ics, err := NewICFunction(UNIFORM, nil, 1.4)
	require.NoError(t, err)
	cfg := SolverConfig{FinalTime: 0.1}
	{ // Every boundary tag needs a policy
		ctx, err := NewContext(gas, FLUX_HLLE, 0.5)
		require.NoError(t, err)
		ctx.SetBC(mesh.TagXMin, NewOutflowBC())
		ctx.SetBC(mesh.TagXMax, NewOutflowBC())
		_, err = NewSolver(m, ctx, ics, cfg, nil, nil)
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Contains(t, err.Error(), "[3 4]")
	}
	ctx := closedContext(t, gas, FLUX_HLLE, 0.5)
	{ // Missing pieces
		_, err = NewSolver(nil, ctx, ics, cfg, nil, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = NewSolver(m, ctx, nil, cfg, nil, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = NewSolver(m, ctx, ics, SolverConfig{}, nil, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
	{ // Initial states are checked
		bad, err := NewICFunction(UNIFORM, map[string]float64{"rho": -1}, 1.4)
		require.NoError(t, err)
		_, err = NewSolver(m, ctx, bad, cfg, nil, nil)
		assert.ErrorIs(t, err, ErrNegativeState)
	}
	{ // Partitions cover every cell and face once
		s, err := NewSolver(m, ctx, ics, SolverConfig{FinalTime: 0.1, ProcLimit: 3}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, s.ParallelDegree)
		var cells, faces int
		for np := 0; np < s.ParallelDegree; np++ {
			cells += len(s.cellParts[np])
			faces += len(s.faceParts[np])
			for _, f := range s.faceParts[np] {
				owner, _, _ := s.Partitions.GetBucket(m.FaceCells(f)[0])
				assert.Equal(t, np, owner)
			}
		}
		assert.Equal(t, m.NumCells(), cells)
		assert.Equal(t, m.NumFaces(), faces)
	}
}

func TestSolverRun(t *testing.T) {
	gas := newGas(t)
	{ // Snapshots per partition and step
		m, err := mesh.NewBox([]int{4, 4}, []float64{1, 1})
		require.NoError(t, err)
		dir := filepath.Join(t.TempDir(), "out")
		s, sm := newTestSolver(t, m, gas, UNIFORM, map[string]float64{"u": 0.5}, SolverConfig{
			MaxSteps: 12, OutputFreq: 5, Prefix: "hydro", Postfix: "dat", OutputDir: dir, ProcLimit: 2,
		})
		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, 12, s.Steps)
		for _, step := range []int{0, 5, 10, 12} {
			for rank := 0; rank < 2; rank++ {
				fname := filepath.Join(dir, SnapshotName("hydro", "dat", rank, step))
				assert.FileExists(t, fname)
				assert.Equal(t, 9, countLines(t, fname))
			}
		}
		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, files, 8)
		st := sm.Status()
		assert.Equal(t, 12, st.Step)
		assert.True(t, st.Finished)
		assert.Empty(t, st.Error)
	}
	{ // The final time is hit exactly
		m, err := mesh.NewBox([]int{5, 5}, []float64{1, 1})
		require.NoError(t, err)
		s, _ := newTestSolver(t, m, gas, UNIFORM, nil, SolverConfig{FinalTime: 0.25})
		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, 0.25, s.Time)
		assert.True(t, s.Steps > 1)
	}
	{ // No wave can move in dust at rest
		m, err := mesh.NewBox([]int{3, 3}, []float64{1, 1})
		require.NoError(t, err)
		s, sm := newTestSolver(t, m, eos.Dust{}, UNIFORM, map[string]float64{"p": 0}, SolverConfig{FinalTime: 1})
		err = s.Run(context.Background())
		require.ErrorIs(t, err, ErrInfiniteDeltaT)
		assert.Equal(t, 0, s.Steps)
		st := sm.Status()
		assert.True(t, st.Finished)
		assert.NotEmpty(t, st.Error)
	}
	{ // Cancellation is honoured between steps
		m, err := mesh.NewBox([]int{3, 3}, []float64{1, 1})
		require.NoError(t, err)
		s, _ := newTestSolver(t, m, gas, UNIFORM, nil, SolverConfig{FinalTime: 1})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Run(ctx), context.Canceled)
		assert.Equal(t, 0, s.Steps)
	}
}

func TestSolverPartitionIndependence(t *testing.T) {
	var (
		gas = newGas(t)
		U   [][]State
	)
	for _, procs := range []int{1, 4} {
		m, err := mesh.NewBox([]int{10, 10}, []float64{1, 1})
		require.NoError(t, err)
		s, _ := newTestSolver(t, m, gas, SHOCKBOX, nil, SolverConfig{MaxSteps: 10, ProcLimit: procs})
		require.NoError(t, s.Run(context.Background()))
		U = append(U, s.U)
	}
	assert.Equal(t, U[0], U[1])
}

func TestSodShockTube(t *testing.T) {
	var (
		gas   = newGas(t)
		tFin  = 0.1
		exact ICFunction
		errs  []float64
	)
	exact, err := NewICFunction(SOD, nil, 1.4)
	require.NoError(t, err)
	for _, nx := range []int{50, 200} {
		m, err := mesh.NewBox([]int{nx, 1}, []float64{1, 1 / float64(nx)})
		require.NoError(t, err)
		s, _ := newTestSolver(t, m, gas, SOD, nil, SolverConfig{FinalTime: tFin, ProcLimit: 4})
		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, tFin, s.Time)
		var l1 float64
		for c := range s.U {
			x := m.CellCentroid(c)
			rho, _, _ := exact(x, tFin)
			l1 += math.Abs(s.U[c].Density-rho) / float64(nx)
			// The flow stays one dimensional
			assert.InDelta(t, 0., s.U[c].Velocity.Y, 1.e-10)
		}
		errs = append(errs, l1)
	}
	assert.Less(t, errs[1], errs[0])
	assert.Less(t, errs[1], 0.02)
}

func TestSnapshot(t *testing.T) {
	gas := newGas(t)
	m, err := mesh.NewBox([]int{2, 2}, []float64{1, 1})
	require.NoError(t, err)
	U := make([]State, m.NumCells())
	for c := range U {
		U[c] = newState(1.4, r3.Vec{X: 1}, 1, gas)
	}
	fname := filepath.Join(t.TempDir(), SnapshotName("box", "txt", 3, 17))
	assert.Equal(t, "box_rank0003_step000017.txt", filepath.Base(fname))
	file, err := os.Create(fname)
	require.NoError(t, err)
	require.NoError(t, WriteSnapshot(file, m, []int{1, 2}, U, gas))
	require.NoError(t, file.Close())
	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, 3, countLines(t, fname))
	assert.Contains(t, string(b), snapshotHeader)
	assert.Contains(t, string(b), " 1.4000000000e+00 1.0000000000e+00 0.0000000000e+00 0.0000000000e+00 1.0000000000e+00 ")
}
