package Hydro

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrInfiniteDeltaT = errors.New("infinite delta t")
	ErrNegativeState  = errors.New("negative density or internal energy encountered")
	ErrZeroAreaFace   = errors.New("zero area face")
)

// NumericalError locates a fatal breakdown in one of the kernel phases.
// Cell or Face is -1 when it does not apply.
type NumericalError struct {
	Phase    string
	Cell     int
	Face     int
	Quantity string
	Value    float64
	Err      error
}

func (e *NumericalError) Error() string {
	var where string
	switch {
	case e.Cell >= 0 && e.Face >= 0:
		where = fmt.Sprintf("cell %d face %d", e.Cell, e.Face)
	case e.Face >= 0:
		where = fmt.Sprintf("face %d", e.Face)
	case e.Cell >= 0:
		where = fmt.Sprintf("cell %d", e.Cell)
	}
	return fmt.Sprintf("%s: %v at %s, %s = %g", e.Phase, e.Err, where, e.Quantity, e.Value)
}

func (e *NumericalError) Unwrap() error { return e.Err }

// Kind names the sentinel behind err, used as a metrics label
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInfiniteDeltaT):
		return "infinite_dt"
	case errors.Is(err, ErrNegativeState):
		return "negative_state"
	case errors.Is(err, ErrZeroAreaFace):
		return "zero_area_face"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "other"
	}
}
