package Hydro

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/sod_shock_tube"
)

type InitType uint

const (
	UNIFORM InitType = iota
	SHOCKBOX
	SOD
)

var (
	InitNames = map[string]InitType{
		"uniform":  UNIFORM,
		"shockbox": SHOCKBOX,
		"sod":      SOD,
	}
	InitPrintNames = []string{"Uniform", "Shock Box", "Sod Shock Tube"}
)

func (it InitType) Print() (txt string) {
	txt = InitPrintNames[it]
	return
}

func NewInitType(label string) (it InitType, err error) {
	var ok bool
	if len(label) == 0 {
		err = fmt.Errorf("%w: empty init type, must be one of %v", ErrConfiguration, initLabels())
		return
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if it, ok = InitNames[label]; !ok {
		err = fmt.Errorf("%w: unable to use init type named %q", ErrConfiguration, label)
	}
	return
}

func initLabels() (labels []string) {
	for label := range InitNames {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return
}

// Parameters of each family with their defaults
var initDefaults = [...]map[string]float64{
	UNIFORM: {"rho": 1, "p": 1, "u": 0, "v": 0, "w": 0},
	// In state inside the x < x0, y < y0 quadrant
	SHOCKBOX: {"rhoIn": 0.125, "pIn": 0.1, "rhoOut": 1, "pOut": 1, "x0": 0, "y0": 0},
	// Left state for x < x0, evolved exactly to the requested time
	SOD: {"rhoL": 1, "pL": 1, "uL": 0, "rhoR": 0.125, "pR": 0.1, "uR": 0, "x0": 0},
}

// NewICFunction builds the initial condition family it from params, unset
// parameters taking their defaults
func NewICFunction(it InitType, params map[string]float64, gamma float64) (ics ICFunction, err error) {
	if int(it) >= len(initDefaults) {
		err = fmt.Errorf("%w: unknown init type %d", ErrConfiguration, it)
		return
	}
	vals := make(map[string]float64, len(initDefaults[it]))
	for k, v := range initDefaults[it] {
		vals[k] = v
	}
	for k, v := range params {
		if _, ok := vals[k]; !ok {
			err = fmt.Errorf("%w: %s initial conditions have no parameter %q",
				ErrConfiguration, it.Print(), k)
			return
		}
		vals[k] = v
	}
	switch it {
	case UNIFORM:
		var (
			rho, p = vals["rho"], vals["p"]
			vel    = r3.Vec{X: vals["u"], Y: vals["v"], Z: vals["w"]}
		)
		ics = func(x r3.Vec, t float64) (float64, r3.Vec, float64) {
			return rho, vel, p
		}
	case SHOCKBOX:
		ics = func(x r3.Vec, t float64) (float64, r3.Vec, float64) {
			if x.X < vals["x0"] && x.Y < vals["y0"] {
				return vals["rhoIn"], r3.Vec{}, vals["pIn"]
			}
			return vals["rhoOut"], r3.Vec{}, vals["pOut"]
		}
	case SOD:
		var rp *sod_shock_tube.RiemannProblem
		rp, err = sod_shock_tube.NewRiemannProblem(
			sod_shock_tube.State{Rho: vals["rhoL"], U: vals["uL"], P: vals["pL"]},
			sod_shock_tube.State{Rho: vals["rhoR"], U: vals["uR"], P: vals["pR"]},
			gamma, vals["x0"])
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrConfiguration, err)
			return
		}
		ics = func(x r3.Vec, t float64) (float64, r3.Vec, float64) {
			s := rp.Sample(x.X, t)
			return s.Rho, r3.Vec{X: s.U}, s.P
		}
	}
	return
}
