package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status is the latest progress of a run
type Status struct {
	Step     int       `json:"step"`
	Time     float64   `json:"time"`
	DeltaT   float64   `json:"dt"`
	Cells    int       `json:"cells"`
	Finished bool      `json:"finished"`
	Error    string    `json:"error,omitempty"`
	Updated  time.Time `json:"updated"`
}

// SolverMetrics records the progress of the time integration loop
type SolverMetrics struct {
	steps        prometheus.Counter
	simTime      prometheus.Gauge
	timeStep     prometheus.Gauge
	stepDuration prometheus.Histogram
	cells        prometheus.Gauge
	fatal        *prometheus.CounterVec

	mu     sync.Mutex
	status Status
}

func NewSolverMetrics(reg prometheus.Registerer) *SolverMetrics {
	m := &SolverMetrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fvhydro",
			Name:      "steps_total",
			Help:      "Total time steps completed",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fvhydro",
			Name:      "simulation_time",
			Help:      "Current simulation time",
		}),
		timeStep: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fvhydro",
			Name:      "delta_t",
			Help:      "Time step size of the latest step",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fvhydro",
			Name:      "step_duration_seconds",
			Help:      "Wall clock duration of one time step",
			Buckets:   prometheus.ExponentialBuckets(1.e-5, 4, 10),
		}),
		cells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fvhydro",
			Name:      "cells",
			Help:      "Number of mesh cells",
		}),
		fatal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fvhydro",
			Name:      "fatal_errors_total",
			Help:      "Fatal solver errors by kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.steps, m.simTime, m.timeStep, m.stepDuration, m.cells, m.fatal)
	return m
}

func (m *SolverMetrics) SetCells(n int) {
	m.cells.Set(float64(n))
	m.mu.Lock()
	m.status.Cells = n
	m.status.Updated = time.Now()
	m.mu.Unlock()
}

func (m *SolverMetrics) ObserveStep(step int, t, dt float64, elapsed time.Duration) {
	m.steps.Inc()
	m.simTime.Set(t)
	m.timeStep.Set(dt)
	m.stepDuration.Observe(elapsed.Seconds())
	m.mu.Lock()
	m.status.Step, m.status.Time, m.status.DeltaT = step, t, dt
	m.status.Updated = time.Now()
	m.mu.Unlock()
}

func (m *SolverMetrics) ObserveFatal(kind string, err error) {
	m.fatal.WithLabelValues(kind).Inc()
	m.mu.Lock()
	m.status.Error = err.Error()
	m.status.Finished = true
	m.status.Updated = time.Now()
	m.mu.Unlock()
}

func (m *SolverMetrics) Finish() {
	m.mu.Lock()
	m.status.Finished = true
	m.status.Updated = time.Now()
	m.mu.Unlock()
}

func (m *SolverMetrics) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// WriteTextfile dumps everything g gathers in the node exporter textfile
// format
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(filename, g)
}
