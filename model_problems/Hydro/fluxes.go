package Hydro

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// FluxFunction returns the numerical flux per unit area through the unit
// normal n, which points from wl into wr
type FluxFunction func(wl, wr State, n r3.Vec) Conserved

type FluxType uint

const (
	FLUX_Average FluxType = iota
	FLUX_Rusanov
	FLUX_HLLE
)

var (
	FluxNames = map[string]FluxType{
		"average": FLUX_Average,
		"lax":     FLUX_Rusanov,
		"rusanov": FLUX_Rusanov,
		"hlle":    FLUX_HLLE,
	}
	FluxPrintNames = []string{"Average", "Rusanov (Local Lax Friedrichs)", "HLLE"}
)

func (ft FluxType) Print() (txt string) {
	txt = FluxPrintNames[ft]
	return
}

func NewFluxType(label string) (ft FluxType, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if ft, ok = FluxNames[label]; !ok {
		err = fmt.Errorf("%w: unable to use flux named %q", ErrConfiguration, label)
	}
	return
}

func (ft FluxType) Function() FluxFunction {
	switch ft {
	case FLUX_Rusanov:
		return RusanovFlux
	case FLUX_HLLE:
		return HLLEFlux
	default:
		return AverageFlux
	}
}

// AverageFlux is the central flux, dissipation free and only stable for
// smooth or trivial problems
func AverageFlux(wl, wr State, n r3.Vec) Conserved {
	return PhysicalFlux(wl, n).Add(PhysicalFlux(wr, n)).Scale(0.5)
}

// RusanovFlux is the central flux plus jump dissipation scaled by the larger
// of the two fastest wavespeeds
func RusanovFlux(wl, wr State, n r3.Vec) Conserved {
	var (
		maxV = math.Max(FastestWavespeed(wl, n), FastestWavespeed(wr, n))
		jump = wr.ToConserved().Sub(wl.ToConserved())
	)
	return AverageFlux(wl, wr, n).Sub(jump.Scale(0.5 * maxV))
}

// HLLEFlux is the two wave HLL flux with Einfeldt/Davis signal speeds
func HLLEFlux(wl, wr State, n r3.Vec) Conserved {
	var (
		unL, unR = r3.Dot(wl.Velocity, n), r3.Dot(wr.Velocity, n)
		sL       = math.Min(unL-wl.SoundSpeed, unR-wr.SoundSpeed)
		sR       = math.Max(unL+wl.SoundSpeed, unR+wr.SoundSpeed)
	)
	switch {
	case sL >= 0:
		return PhysicalFlux(wl, n)
	case sR <= 0:
		return PhysicalFlux(wr, n)
	}
	var (
		fL, fR = PhysicalFlux(wl, n), PhysicalFlux(wr, n)
		jump   = wr.ToConserved().Sub(wl.ToConserved())
		oods   = 1. / (sR - sL)
	)
	return fL.Scale(sR * oods).Sub(fR.Scale(sL * oods)).Add(jump.Scale(sL * sR * oods))
}
