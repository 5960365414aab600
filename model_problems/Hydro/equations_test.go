package Hydro

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/eos"
	"github.com/notargets/fvhydro/types"
)

func newGas(t *testing.T) *eos.IdealGas {
	gas, err := eos.NewIdealGas(1.4)
	require.NoError(t, err)
	return gas
}

func newState(rho float64, vel r3.Vec, p float64, e eos.EOS) (s State) {
	s = State{Density: rho, Velocity: vel, Pressure: p}
	UpdateStateFromPressure(&s, e)
	return
}

func randomState(rng *rand.Rand, e eos.EOS) State {
	return newState(0.1+1.9*rng.Float64(),
		r3.Vec{X: 2*rng.Float64() - 1, Y: 2*rng.Float64() - 1, Z: 2*rng.Float64() - 1},
		0.1+1.9*rng.Float64(), e)
}

func randomUnit(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: 2*rng.Float64() - 1, Y: 2*rng.Float64() - 1, Z: 2*rng.Float64() - 1}
		if n := r3.Norm(v); n > 0.1 && n < 1 {
			return r3.Scale(1/n, v)
		}
	}
}

func assertConserved(t *testing.T, want, got Conserved, tol float64) {
	t.Helper()
	assert.InDelta(t, want.Mass, got.Mass, tol)
	assert.InDelta(t, 0., r3.Norm(r3.Sub(want.Momentum, got.Momentum)), tol)
	assert.InDelta(t, want.Energy, got.Energy, tol)
}

func TestEquations(t *testing.T) {
	gas := newGas(t)
	{ // Primitive closure
		s := newState(1.4, r3.Vec{X: 1, Y: 2}, 1, gas)
		assert.InDelta(t, 1/(0.4*1.4), s.InternalEnergy, 1.e-14)
		assert.InDelta(t, 1., s.SoundSpeed, 1.e-14)
		q := s.ToConserved()
		assert.Equal(t, 1.4, q.Mass)
		assert.Equal(t, r3.Vec{X: 1.4, Y: 2.8}, q.Momentum)
		assert.InDelta(t, 1/0.4+0.5*1.4*5, q.Energy, 1.e-14)
		assert.InDelta(t, 3., FastestWavespeed(s, r3.Vec{Y: -1}), 1.e-14)
	}
	{ // Conserved increments round trip through the primitive state
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 20; i++ {
			s := randomState(rng, gas)
			before := s
			UpdateStateFromFlux(&s, Conserved{})
			UpdateStateFromEnergy(&s, gas)
			assert.InDelta(t, before.Density, s.Density, 1.e-14)
			assert.InDelta(t, before.Pressure, s.Pressure, 1.e-12)
			assert.InDelta(t, 0., r3.Norm(r3.Sub(before.Velocity, s.Velocity)), 1.e-14)
			delta := Conserved{Mass: 0.1, Momentum: r3.Vec{X: 0.2}, Energy: 0.3}
			UpdateStateFromFlux(&s, delta)
			assertConserved(t, before.ToConserved().Add(delta), s.ToConserved(), 1.e-13)
		}
	}
	{ // Physical flux of a state at rest is pure pressure
		s := newState(2, r3.Vec{}, 3, gas)
		n := r3.Vec{X: 0.6, Y: 0.8}
		assertConserved(t, Conserved{Momentum: r3.Scale(3, n)}, PhysicalFlux(s, n), 1.e-15)
	}
}

func TestFluxes(t *testing.T) {
	var (
		gas = newGas(t)
		rng = rand.New(rand.NewSource(2))
	)
	{ // Names
		for label, want := range map[string]FluxType{
			"hlle": FLUX_HLLE, "Rusanov": FLUX_Rusanov, "lax": FLUX_Rusanov, " average ": FLUX_Average,
		} {
			ft, err := NewFluxType(label)
			require.NoError(t, err)
			assert.Equal(t, want, ft)
		}
		_, err := NewFluxType("roe")
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Equal(t, "HLLE", FLUX_HLLE.Print())
	}
	for _, ft := range []FluxType{FLUX_Average, FLUX_Rusanov, FLUX_HLLE} {
		flux := ft.Function()
		for i := 0; i < 50; i++ {
			var (
				wl, wr = randomState(rng, gas), randomState(rng, gas)
				n      = randomUnit(rng)
			)
			// Consistency
			assertConserved(t, PhysicalFlux(wl, n), flux(wl, wl, n), 1.e-12)
			// Conservation: what leaves one side enters the other
			assertConserved(t, flux(wl, wr, n), flux(wr, wl, r3.Scale(-1, n)).Scale(-1), 1.e-12)
		}
	}
	{ // Supersonic flow is pure upwinding for HLLE
		wl := newState(1, r3.Vec{X: 5}, 1, gas)
		wr := newState(0.5, r3.Vec{X: 4}, 0.5, gas)
		n := r3.Vec{X: 1}
		assert.Equal(t, PhysicalFlux(wl, n), HLLEFlux(wl, wr, n))
		assert.Equal(t, PhysicalFlux(wl, r3.Scale(-1, n)), HLLEFlux(wr, wl, r3.Scale(-1, n)))
	}
	{ // Rusanov dissipation acts against the jump
		wl := newState(1, r3.Vec{}, 1, gas)
		wr := newState(0.5, r3.Vec{}, 1, gas)
		f := RusanovFlux(wl, wr, r3.Vec{X: 1})
		assert.True(t, f.Mass > 0)
		assert.InDelta(t, 0.25*math.Max(wl.SoundSpeed, wr.SoundSpeed), f.Mass, 1.e-14)
	}
}

func TestBoundaryConditions(t *testing.T) {
	var (
		gas = newGas(t)
		w   = newState(1, r3.Vec{X: 0.3, Y: -0.2}, 2, gas)
		n   = r3.Vec{Y: 1}
	)
	{ // Reflective walls only transmit pressure
		f, err := NewReflectiveBC().Flux(w, n, RusanovFlux)
		require.NoError(t, err)
		assert.Equal(t, Conserved{Momentum: r3.Vec{Y: 2}}, f)
	}
	{ // Outflow transmits the interior flux
		f, err := NewOutflowBC().Flux(w, n, RusanovFlux)
		require.NoError(t, err)
		assert.Equal(t, PhysicalFlux(w, n), f)
	}
	{ // Fixed state boundaries go through the interior flux function
		bc, err := NewFixedBC(1, r3.Vec{X: 0.3, Y: -0.2}, 2, gas)
		require.NoError(t, err)
		assert.Equal(t, types.BC_Fixed, bc.Flag)
		f, err := bc.Flux(w, n, HLLEFlux)
		require.NoError(t, err)
		assertConserved(t, PhysicalFlux(w, n), f, 1.e-13)
		_, err = NewFixedBC(0, r3.Vec{}, 1, gas)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
	{ // Missing policies
		_, err := BoundaryCondition{}.Flux(w, n, HLLEFlux)
		assert.ErrorIs(t, err, ErrConfiguration)
		ctx, err := NewContext(gas, FLUX_HLLE, 0.5)
		require.NoError(t, err)
		_, err = ctx.BoundaryFlux(3, w, n)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = NewContext(gas, FLUX_HLLE, 0)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = NewContext(nil, FLUX_HLLE, 0.5)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}
