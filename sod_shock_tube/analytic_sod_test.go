package sod_shock_tube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSOD(t *testing.T) {
	{ // Sampled density against reference values at t = 0.1
		xCheck := []float64{0, 0.3815784043380077, 0.3817784043380077, 0.39280783577858336, 0.40393726721915907, 0.4150666986597348, 0.42619613010031043, 0.4373255615408861, 0.4484549929814618, 0.4595844244220375, 0.47071385586261316, 0.4818432873031888, 0.49277271874376455, 0.49287271874376454, 0.4930727187437645, 0.5926452620047974, 0.5928452620047974, 0.675115573202932, 0.675315573202932, 1}
		rhoCheck := []float64{1, 1, 0.9992959031724784, 0.9240353444481086, 0.852758969991083, 0.7859504402212434, 0.7233963393812908, 0.6648901587403833, 0.6102321829702019, 0.5592293765210307, 0.5116952699978237, 0.467449846536279, 0.4270320564069276, 0.42667562327066666, 0.4263194281781805, 0.4263194281781805, 0.26557371170513905, 0.26557371170513905, 0.125, 0.125}
		sod := NewSOD()
		for i, x := range xCheck {
			assert.InDelta(t, rhoCheck[i], sod.Sample(x, 0.1).Rho, 0.001, "x = %v", x)
		}
		_, _, _, x4 := sod.Positions(0.1)
		assert.InDelta(t, 0.6752, x4, 0.0001)
		_, _, _, x4 = sod.Positions(0.2)
		assert.InDelta(t, 0.8504, x4, 0.0001)
	}
	{ // Star region
		sod := NewSOD()
		assert.InDelta(t, 0.30313, sod.PStar, 1.e-5)
		assert.InDelta(t, 0.92745, sod.UStar, 1.e-5)
		assert.InDelta(t, 0.42632, sod.RhoStarL, 1.e-5)
		assert.InDelta(t, 0.26557, sod.RhoStarR, 1.e-5)
	}
	{ // Plot samples bracket every wave
		X, Rho, P, U, E := SOD_calc(0.2)
		require.Equal(t, len(X), len(Rho))
		assert.Equal(t, 0., X[0])
		assert.Equal(t, 1., X[len(X)-1])
		for i := 1; i < len(X); i++ {
			assert.True(t, X[i] > X[i-1])
		}
		for i := range X {
			assert.InDelta(t, P[i]/(0.4*Rho[i]), E[i], 1.e-12)
			assert.True(t, U[i] >= 0)
		}
		assert.Equal(t, 0.125, Rho[len(Rho)-1])
	}
	{ // Two rarefactions, symmetric
		rp, err := NewRiemannProblem(State{Rho: 1, U: -2, P: 0.4}, State{Rho: 1, U: 2, P: 0.4}, 1.4, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0.00189, rp.PStar, 1.e-5)
		assert.InDelta(t, 0., rp.UStar, 1.e-12)
		l, r := rp.Sample(-0.1, 0.15), rp.Sample(0.1, 0.15)
		assert.InDelta(t, l.Rho, r.Rho, 1.e-12)
		assert.InDelta(t, -l.U, r.U, 1.e-12)
	}
	{ // Two shocks conserve mass across each front
		rp, err := NewRiemannProblem(State{Rho: 1, U: 1, P: 1}, State{Rho: 1, U: -1, P: 1}, 1.4, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0., rp.UStar, 1.e-12)
		assert.True(t, rp.PStar > 1)
		assert.True(t, rp.RhoStarL > 1)
		assert.InDelta(t, rp.RhoStarL, rp.RhoStarR, 1.e-12)
	}
	{ // Before the diaphragm bursts
		sod := NewSOD()
		assert.Equal(t, sod.Left, sod.Sample(0.2, 0))
		assert.Equal(t, sod.Right, sod.Sample(0.7, 0))
	}
	{ // Bad input
		_, err := NewRiemannProblem(State{Rho: 1, P: 1}, State{Rho: 1, P: 1}, 1, 0)
		assert.Error(t, err)
		_, err = NewRiemannProblem(State{Rho: -1, P: 1}, State{Rho: 1, P: 1}, 1.4, 0)
		assert.Error(t, err)
		_, err = NewRiemannProblem(State{Rho: 1, U: -10, P: 1}, State{Rho: 1, U: 10, P: 1}, 1.4, 0)
		assert.Error(t, err)
		assert.False(t, math.IsNaN(NewSOD().PStar))
	}
}
