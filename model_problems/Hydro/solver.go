package Hydro

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/notargets/fvhydro/metrics"
	"github.com/notargets/fvhydro/utils"
)

type SolverConfig struct {
	FinalTime  float64
	MaxSteps   int // <= 0 for no limit
	OutputFreq int // steps between snapshots, <= 0 writes only the first and last
	Prefix     string
	Postfix    string
	OutputDir  string // empty disables snapshots
	ProcLimit  int
}

/*
Solver owns the state and flux arrays and drives the kernel phases. Cells
are split into contiguous partitions and each face belongs to the partition
of its first cell. Every phase runs one goroutine per partition and
completes before the next phase starts.
*/
type Solver struct {
	SolverConfig
	Mesh    Mesh
	Ctx     *Context
	ICs     ICFunction
	U       []State     // per cell
	F       []Conserved // per face
	Time    float64
	Steps   int
	Logger  *zap.Logger
	Metrics *metrics.SolverMetrics // optional

	ParallelDegree int
	Partitions     *utils.PartitionMap
	cellParts      [][]int
	faceParts      [][]int
	lastSnapshot   int
}

func NewSolver(m Mesh, ctx *Context, ics ICFunction, cfg SolverConfig,
	logger *zap.Logger, sm *metrics.SolverMetrics) (s *Solver, err error) {
	switch {
	case m == nil || m.NumCells() == 0:
		err = fmt.Errorf("%w: empty mesh", ErrConfiguration)
	case ctx == nil || ics == nil:
		err = fmt.Errorf("%w: missing physics context or initial conditions", ErrConfiguration)
	case !(cfg.FinalTime > 0) && cfg.MaxSteps <= 0:
		err = fmt.Errorf("%w: need a final time or a step limit", ErrConfiguration)
	}
	if err != nil {
		return
	}
	if err = ctx.CheckBoundaries(m); err != nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s = &Solver{
		SolverConfig: cfg,
		Mesh:         m,
		Ctx:          ctx,
		ICs:          ics,
		U:            make([]State, m.NumCells()),
		F:            make([]Conserved, m.NumFaces()),
		Logger:       logger,
		Metrics:      sm,
		lastSnapshot: -1,
	}
	s.partition()
	if s.Metrics != nil {
		s.Metrics.SetCells(m.NumCells())
	}
	_ = utils.RunPartitions(s.ParallelDegree, func(np int) error {
		InitialConditions(m, s.cellParts[np], ics, ctx.EOS, 0, s.U)
		return nil
	})
	for c := range s.U {
		if nerr := CheckState(s.U[c]); nerr != nil {
			nerr.Phase, nerr.Cell = "initial conditions", c
			err = nerr
			return nil, err
		}
	}
	return
}

func (s *Solver) partition() {
	var (
		m  = s.Mesh
		NP = utils.ParallelDegree(s.ProcLimit, m.NumCells())
	)
	s.ParallelDegree = NP
	s.Partitions = utils.NewPartitionMap(NP, m.NumCells())
	s.cellParts = make([][]int, NP)
	s.faceParts = make([][]int, NP)
	for np := 0; np < NP; np++ {
		kMin, kMax := s.Partitions.GetBucketRange(np)
		s.cellParts[np] = make([]int, 0, kMax-kMin)
		for k := kMin; k < kMax; k++ {
			s.cellParts[np] = append(s.cellParts[np], k)
		}
	}
	for f := 0; f < m.NumFaces(); f++ {
		np, _, _ := s.Partitions.GetBucket(m.FaceCells(f)[0])
		s.faceParts[np] = append(s.faceParts[np], f)
	}
}

// Step advances the solution by one CFL limited step, clipped so the final
// time is hit exactly, and returns the step size
func (s *Solver) Step() (dt float64, err error) {
	var (
		NP     = s.ParallelDegree
		m      = s.Mesh
		dtInvs = make([]float64, NP)
	)
	if err = utils.RunPartitions(NP, func(np int) (err error) {
		dtInvs[np], err = EvaluateTimeStep(m, s.cellParts[np], s.U)
		return
	}); err != nil {
		return
	}
	if dt, err = ReduceTimeStep(dtInvs...); err != nil {
		return
	}
	dt *= s.Ctx.CFL
	if s.FinalTime > 0 {
		dt = math.Min(dt, s.FinalTime-s.Time)
	}
	if err = utils.RunPartitions(NP, func(np int) error {
		return EvaluateFluxes(m, s.faceParts[np], s.U, s.Ctx, s.F)
	}); err != nil {
		return
	}
	err = utils.RunPartitions(NP, func(np int) error {
		return ApplyUpdate(m, s.cellParts[np], s.Ctx, dt, s.F, s.U)
	})
	return
}

func (s *Solver) CheckIfFinished() (finished bool) {
	if s.FinalTime > 0 && s.Time >= s.FinalTime {
		finished = true
	}
	if s.MaxSteps > 0 && s.Steps >= s.MaxSteps {
		finished = true
	}
	return
}

// Run steps until the final time or step limit. Cancellation of ctx is
// honoured between steps. Snapshots written before a failure are kept.
func (s *Solver) Run(ctx context.Context) (err error) {
	var (
		elapsed time.Duration
		log     = s.Logger
	)
	log.Info("starting hydro solve",
		zap.Int("cells", s.Mesh.NumCells()),
		zap.Int("faces", s.Mesh.NumFaces()),
		zap.Int("dimensions", s.Mesh.NumDimensions()),
		zap.Int("partitions", s.ParallelDegree),
		zap.String("flux", s.Ctx.FluxType.Print()),
		zap.Float64("cfl", s.Ctx.CFL),
		zap.Float64("final_time", s.FinalTime),
		zap.Int("max_steps", s.MaxSteps))
	if err = s.WriteSnapshots(); err != nil {
		return
	}
	for !s.CheckIfFinished() {
		if err = ctx.Err(); err != nil {
			log.Warn("hydro solve cancelled", zap.Int("step", s.Steps), zap.Float64("time", s.Time))
			return
		}
		start := time.Now()
		var dt float64
		if dt, err = s.Step(); err != nil {
			if s.Metrics != nil {
				s.Metrics.ObserveFatal(Kind(err), err)
			}
			log.Error("hydro step failed",
				zap.Int("step", s.Steps+1), zap.Float64("time", s.Time), zap.Error(err))
			return fmt.Errorf("step %d at time %g: %w", s.Steps+1, s.Time, err)
		}
		stepTime := time.Since(start)
		elapsed += stepTime
		s.Steps++
		if s.FinalTime > 0 && dt >= s.FinalTime-s.Time {
			s.Time = s.FinalTime
		} else {
			s.Time += dt
		}
		if s.Metrics != nil {
			s.Metrics.ObserveStep(s.Steps, s.Time, dt, stepTime)
		}
		log.Debug("step", zap.Int("step", s.Steps), zap.Float64("time", s.Time), zap.Float64("dt", dt))
		if s.OutputFreq > 0 && s.Steps%s.OutputFreq == 0 {
			if err = s.WriteSnapshots(); err != nil {
				return
			}
		}
	}
	if err = s.WriteSnapshots(); err != nil {
		return
	}
	if s.Metrics != nil {
		s.Metrics.Finish()
	}
	var rate float64
	if s.Steps > 0 {
		rate = float64(elapsed.Microseconds()) / float64(s.Mesh.NumCells()*s.Steps)
	}
	log.Info("hydro solve finished",
		zap.Int("steps", s.Steps),
		zap.Float64("time", s.Time),
		zap.Duration("elapsed", elapsed),
		zap.Float64("us_per_cell_step", rate),
		zap.String("memory", utils.GetMemUsage()))
	return
}

// WriteSnapshots writes one file per partition for the current step, once
func (s *Solver) WriteSnapshots() error {
	if s.OutputDir == "" || s.lastSnapshot == s.Steps {
		return nil
	}
	s.lastSnapshot = s.Steps
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return err
	}
	return utils.RunPartitions(s.ParallelDegree, func(np int) (err error) {
		fname := filepath.Join(s.OutputDir, SnapshotName(s.Prefix, s.Postfix, np, s.Steps))
		file, err := os.Create(fname)
		if err != nil {
			return
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		s.Logger.Debug("writing snapshot", zap.String("file", fname))
		return WriteSnapshot(file, s.Mesh, s.cellParts[np], s.U, s.Ctx.EOS)
	})
}
