package Hydro

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/eos"
	"github.com/notargets/fvhydro/utils"
)

/*
	The kernel phases of one explicit step. Each works on the cells or faces a
	partition owns, writes only entries it owns, and never blocks. Callers run
	the phases in order and make every write of a phase visible before the
	next one starts:

		InitialConditions (once)
		EvaluateTimeStep -> ReduceTimeStep -> EvaluateFluxes -> ApplyUpdate
*/

// ICFunction returns the primitive state at position x and time t
type ICFunction func(x r3.Vec, t float64) (density float64, velocity r3.Vec, pressure float64)

func InitialConditions(m Mesh, cells []int, ics ICFunction, e eos.EOS, t float64, U []State) {
	for _, c := range cells {
		s := &U[c]
		s.Density, s.Velocity, s.Pressure = ics(m.CellCentroid(c), t)
		UpdateStateFromPressure(s, e)
	}
}

// EvaluateTimeStep returns the largest inverse time scale, wavespeed over
// the length V/A, among the faces of the given cells
func EvaluateTimeStep(m Mesh, cells []int, U []State) (dtInv float64, err error) {
	for _, c := range cells {
		vol := m.CellVolume(c)
		for _, f := range m.CellFaces(c) {
			area := m.FaceArea(f)
			if !(area > 0) || !utils.IsFinite(area) {
				err = &NumericalError{Phase: "time step", Cell: c, Face: f,
					Quantity: "area", Value: area, Err: ErrZeroAreaFace}
				return
			}
			dti := FastestWavespeed(U[c], m.FaceNormal(f)) / (vol / area)
			if !utils.IsFinite(dti) {
				err = &NumericalError{Phase: "time step", Cell: c, Face: f,
					Quantity: "inverse time step", Value: dti, Err: ErrInfiniteDeltaT}
				return
			}
			if dti > dtInv {
				dtInv = dti
			}
		}
	}
	return
}

// ReduceTimeStep is the global max reduction of the partition results. A
// non-positive maximum means nothing moves and no step can be taken.
func ReduceTimeStep(dtInvs ...float64) (dt float64, err error) {
	if len(dtInvs) == 0 {
		err = fmt.Errorf("%w: nothing to reduce", ErrInfiniteDeltaT)
		return
	}
	dtInv := floats.Max(dtInvs)
	if !(dtInv > 0) {
		err = &NumericalError{Phase: "time step", Cell: -1, Face: -1,
			Quantity: "inverse time step", Value: dtInv, Err: ErrInfiniteDeltaT}
		return
	}
	dt = 1. / dtInv
	return
}

// EvaluateFluxes sets F[f] to the area scaled flux from the first cell of
// f into the second, or out through the boundary
func EvaluateFluxes(m Mesh, faces []int, U []State, ctx *Context, F []Conserved) (err error) {
	for _, f := range faces {
		area := m.FaceArea(f)
		if !(area > 0) || !utils.IsFinite(area) {
			return &NumericalError{Phase: "flux", Cell: -1, Face: f,
				Quantity: "area", Value: area, Err: ErrZeroAreaFace}
		}
		var (
			cells = m.FaceCells(f)
			n     = m.FaceNormal(f)
			flux  Conserved
		)
		switch len(cells) {
		case 2:
			flux = ctx.Flux(U[cells[0]], U[cells[1]], n)
		case 1:
			if flux, err = ctx.BoundaryFlux(m.FaceTag(f), U[cells[0]], n); err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
		default:
			return fmt.Errorf("face %d has %d cells", f, len(cells))
		}
		F[f] = flux.Scale(area)
	}
	return
}

// ApplyUpdate scatters the face fluxes into each cell, subtracting outflow
// through faces the cell owns and adding inflow through the others, then
// closes the state with the EOS
func ApplyUpdate(m Mesh, cells []int, ctx *Context, dt float64, F []Conserved, U []State) error {
	for _, c := range cells {
		var delta Conserved
		for _, f := range m.CellFaces(c) {
			if m.FaceCells(f)[0] == c {
				delta = delta.Sub(F[f])
			} else {
				delta = delta.Add(F[f])
			}
		}
		vol := m.CellVolume(c)
		if !(vol > 0) {
			return &NumericalError{Phase: "update", Cell: c, Face: -1,
				Quantity: "volume", Value: vol, Err: ErrNegativeState}
		}
		s := &U[c]
		UpdateStateFromFlux(s, delta.Scale(dt/vol))
		UpdateStateFromEnergy(s, ctx.EOS)
		if err := CheckState(*s); err != nil {
			err.Phase, err.Cell = "update", c
			return err
		}
	}
	return nil
}

// CheckState fails on negative or NaN density or internal energy
func CheckState(s State) *NumericalError {
	switch {
	case !(s.Density >= 0):
		return &NumericalError{Cell: -1, Face: -1, Quantity: "density", Value: s.Density, Err: ErrNegativeState}
	case !(s.InternalEnergy >= 0):
		return &NumericalError{Cell: -1, Face: -1, Quantity: "internal energy", Value: s.InternalEnergy, Err: ErrNegativeState}
	}
	return nil
}
