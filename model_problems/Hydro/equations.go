package Hydro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/eos"
)

/*
	Euler equations in conservation form, closed by an EOS

	    d/dt [rho, rho u, rho E] + div [rho u, rho u u + p I, (rho E + p) u] = 0
*/

// UpdateStateFromPressure fills energy and sound speed after density and
// pressure have been set
func UpdateStateFromPressure(s *State, e eos.EOS) {
	s.InternalEnergy = e.EnergyFromDensityPressure(s.Density, s.Pressure)
	s.SoundSpeed = e.SoundSpeed(s.Density, s.InternalEnergy)
}

// UpdateStateFromEnergy fills pressure and sound speed after density and
// internal energy have been set
func UpdateStateFromEnergy(s *State, e eos.EOS) {
	s.Pressure = e.PressureFromDensityEnergy(s.Density, s.InternalEnergy)
	s.SoundSpeed = e.SoundSpeed(s.Density, s.InternalEnergy)
}

// UpdateStateFromFlux adds a conserved increment and recovers density,
// velocity and internal energy. Pressure is left stale for the EOS update.
func UpdateStateFromFlux(s *State, delta Conserved) {
	q := s.ToConserved().Add(delta)
	s.Density = q.Mass
	s.Velocity = r3.Scale(1./q.Mass, q.Momentum)
	s.InternalEnergy = q.Energy/q.Mass - 0.5*r3.Dot(s.Velocity, s.Velocity)
}

// FastestWavespeed is |u.n| + c for a unit normal n
func FastestWavespeed(s State, n r3.Vec) float64 {
	return math.Abs(r3.Dot(s.Velocity, n)) + s.SoundSpeed
}

// PhysicalFlux is the exact Euler flux through a unit normal n
func PhysicalFlux(s State, n r3.Vec) Conserved {
	un := r3.Dot(s.Velocity, n)
	return Conserved{
		Mass:     s.Density * un,
		Momentum: r3.Add(r3.Scale(s.Density*un, s.Velocity), r3.Scale(s.Pressure, n)),
		Energy:   (s.Density*s.TotalEnergy() + s.Pressure) * un,
	}
}
