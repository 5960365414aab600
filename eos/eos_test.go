package eos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdealGas(t *testing.T) {
	{ // Round trip pressure <-> energy and the sound speed
		ig, err := NewIdealGas(1.4)
		require.NoError(t, err)
		e := ig.EnergyFromDensityPressure(1., 1.)
		assert.InDelta(t, 2.5, e, 1.e-14)
		assert.InDelta(t, 1., ig.PressureFromDensityEnergy(1., e), 1.e-14)
		assert.InDelta(t, math.Sqrt(1.4), ig.SoundSpeed(1., e), 1.e-14)
		// c^2 = gamma p / rho for any state
		rho, p := 0.125, 0.1
		e = ig.EnergyFromDensityPressure(rho, p)
		assert.InDelta(t, 1.4*p/rho, math.Pow(ig.SoundSpeed(rho, e), 2), 1.e-13)
		assert.Equal(t, e, ig.Temperature(rho, e))
		assert.True(t, math.IsNaN(ig.SoundSpeed(1, -1)))
	}
	{ // Configuration errors
		for _, g := range []float64{1, 0.5, -2, math.NaN(), math.Inf(1)} {
			_, err := NewIdealGas(g)
			assert.Error(t, err, "gamma %v", g)
		}
	}
	{
		var d EOS = Dust{}
		assert.Equal(t, 0., d.SoundSpeed(1, 1))
		assert.Equal(t, 0., d.PressureFromDensityEnergy(1, 1))
	}
}
