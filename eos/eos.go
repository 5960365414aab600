package eos

import (
	"fmt"
	"math"
)

// EOS closes the Euler equations. Implementations are pure functions of
// their arguments; e is specific internal energy.
type EOS interface {
	PressureFromDensityEnergy(density, energy float64) float64
	EnergyFromDensityPressure(density, pressure float64) float64
	SoundSpeed(density, energy float64) float64
}

// IdealGas is the gamma-law gas p = (gamma - 1) rho e
type IdealGas struct {
	Gamma        float64
	SpecificHeat float64 // c_v, used only for temperature
}

func NewIdealGas(gamma float64) (ig *IdealGas, err error) {
	if !(gamma > 1) || math.IsInf(gamma, 0) {
		err = fmt.Errorf("ideal gas requires gamma > 1, have %v", gamma)
		return
	}
	ig = &IdealGas{
		Gamma:        gamma,
		SpecificHeat: 1,
	}
	return
}

func (ig *IdealGas) PressureFromDensityEnergy(density, energy float64) float64 {
	return (ig.Gamma - 1) * density * energy
}

func (ig *IdealGas) EnergyFromDensityPressure(density, pressure float64) float64 {
	return pressure / ((ig.Gamma - 1) * density)
}

// SoundSpeed is sqrt(gamma p / rho) = sqrt(gamma (gamma-1) e). Negative
// energies return NaN so callers can detect them.
func (ig *IdealGas) SoundSpeed(density, energy float64) float64 {
	return math.Sqrt(ig.Gamma * (ig.Gamma - 1) * energy)
}

func (ig *IdealGas) Temperature(density, energy float64) float64 {
	return energy / ig.SpecificHeat
}

// Dust is a pressureless medium with zero sound speed. A state at rest has
// no finite wavespeed under it.
type Dust struct{}

func (Dust) PressureFromDensityEnergy(density, energy float64) float64 { return 0 }
func (Dust) EnergyFromDensityPressure(density, pressure float64) float64 {
	return 0
}
func (Dust) SoundSpeed(density, energy float64) float64 { return 0 }
