package Hydro

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/eos"
	"github.com/notargets/fvhydro/types"
)

// BoundaryCondition is the policy applied on one boundary tag. Ghost is the
// imposed state of a fixed boundary.
type BoundaryCondition struct {
	Flag  types.BCFLAG
	Ghost State
}

func NewReflectiveBC() BoundaryCondition {
	return BoundaryCondition{Flag: types.BC_Reflective}
}

func NewOutflowBC() BoundaryCondition {
	return BoundaryCondition{Flag: types.BC_Outflow}
}

// NewFixedBC imposes (density, velocity, pressure) outside the boundary
func NewFixedBC(density float64, velocity r3.Vec, pressure float64, e eos.EOS) (bc BoundaryCondition, err error) {
	if !(density > 0) || !(pressure >= 0) {
		err = fmt.Errorf("%w: fixed boundary needs density > 0 and pressure >= 0, have %v, %v",
			ErrConfiguration, density, pressure)
		return
	}
	bc = BoundaryCondition{
		Flag: types.BC_Fixed,
		Ghost: State{
			Density:  density,
			Velocity: velocity,
			Pressure: pressure,
		},
	}
	UpdateStateFromPressure(&bc.Ghost, e)
	return
}

// Flux is the boundary flux per unit area for interior state w and the
// outward unit normal n
func (bc BoundaryCondition) Flux(w State, n r3.Vec, flux FluxFunction) (f Conserved, err error) {
	switch bc.Flag {
	case types.BC_Reflective:
		// Only the pressure force acts through a slip wall
		f.Momentum = r3.Scale(w.Pressure, n)
	case types.BC_Outflow:
		f = PhysicalFlux(w, n)
	case types.BC_Fixed:
		f = flux(w, bc.Ghost, n)
	default:
		err = fmt.Errorf("%w: no boundary policy for flag %s", ErrConfiguration, bc.Flag)
	}
	return
}
