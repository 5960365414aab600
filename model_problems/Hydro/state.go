package Hydro

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the cell averaged flow state. InternalEnergy is specific (per
// unit mass). 2D problems keep Velocity.Z at zero.
type State struct {
	Density        float64
	Velocity       r3.Vec
	Pressure       float64
	InternalEnergy float64
	SoundSpeed     float64
}

// Conserved holds mass, momentum and total energy densities. It doubles as
// a face flux and as a cell update.
type Conserved struct {
	Mass     float64
	Momentum r3.Vec
	Energy   float64
}

func (q Conserved) Add(o Conserved) Conserved {
	return Conserved{
		Mass:     q.Mass + o.Mass,
		Momentum: r3.Add(q.Momentum, o.Momentum),
		Energy:   q.Energy + o.Energy,
	}
}

func (q Conserved) Sub(o Conserved) Conserved {
	return Conserved{
		Mass:     q.Mass - o.Mass,
		Momentum: r3.Sub(q.Momentum, o.Momentum),
		Energy:   q.Energy - o.Energy,
	}
}

func (q Conserved) Scale(f float64) Conserved {
	return Conserved{
		Mass:     f * q.Mass,
		Momentum: r3.Scale(f, q.Momentum),
		Energy:   f * q.Energy,
	}
}

// TotalEnergy is the specific total energy e + |u|^2/2
func (s State) TotalEnergy() float64 {
	return s.InternalEnergy + 0.5*r3.Dot(s.Velocity, s.Velocity)
}

func (s State) ToConserved() Conserved {
	return Conserved{
		Mass:     s.Density,
		Momentum: r3.Scale(s.Density, s.Velocity),
		Energy:   s.Density * s.TotalEnergy(),
	}
}
