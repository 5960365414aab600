package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolverMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSolverMetrics(reg)
	m.SetCells(100)
	m.ObserveStep(1, 0.01, 0.01, time.Millisecond)
	m.ObserveStep(2, 0.025, 0.015, 2*time.Millisecond)
	{ // Collectors
		assert.Equal(t, 2., testutil.ToFloat64(m.steps))
		assert.Equal(t, 0.025, testutil.ToFloat64(m.simTime))
		assert.Equal(t, 0.015, testutil.ToFloat64(m.timeStep))
		assert.Equal(t, 100., testutil.ToFloat64(m.cells))
		assert.Equal(t, 1, testutil.CollectAndCount(m.stepDuration))
		st := m.Status()
		assert.Equal(t, 2, st.Step)
		assert.Equal(t, 100, st.Cells)
		assert.False(t, st.Finished)
	}
	{ // Fatal errors by kind
		m.ObserveFatal("negative_state", errors.New("boom"))
		assert.Equal(t, 1., testutil.ToFloat64(m.fatal.WithLabelValues("negative_state")))
		st := m.Status()
		assert.True(t, st.Finished)
		assert.Equal(t, "boom", st.Error)
	}
	{ // Registering twice on one registry panics
		assert.Panics(t, func() { NewSolverMetrics(reg) })
	}
	{ // Textfile export
		fname := filepath.Join(t.TempDir(), "hydro.prom")
		require.NoError(t, WriteTextfile(fname, reg))
		b, err := os.ReadFile(fname)
		require.NoError(t, err)
		assert.Contains(t, string(b), "fvhydro_steps_total 2")
		assert.Contains(t, string(b), `fvhydro_fatal_errors_total{kind="negative_state"} 1`)
	}
}

func TestStatusRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSolverMetrics(reg)
	m.ObserveStep(7, 0.5, 0.01, time.Millisecond)
	m.Finish()
	r := NewStatusRouter(reg, m)
	{ // Status
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/status", http.NoBody))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		var st Status
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&st))
		assert.Equal(t, 7, st.Step)
		assert.Equal(t, 0.5, st.Time)
		assert.True(t, st.Finished)
	}
	{ // Metrics
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Contains(rr.Body.String(), "fvhydro_simulation_time 0.5"))
	}
	{ // Unknown route
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/nope", http.NoBody))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}
}
