package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Reflective
	BC_Fixed
	BC_Outflow
)

var BCNameMap = map[string]BCFLAG{
	"wall":         BC_Reflective,
	"slip":         BC_Reflective,
	"reflective":   BC_Reflective,
	"symmetry":     BC_Reflective,
	"in":           BC_Fixed,
	"inflow":       BC_Fixed,
	"dirichlet":    BC_Fixed,
	"fixed":        BC_Fixed,
	"out":          BC_Outflow,
	"outflow":      BC_Outflow,
	"transmissive": BC_Outflow,
	"neuman":       BC_Outflow,
}

func (bf BCFLAG) String() string {
	return [...]string{"None", "Reflective", "Fixed", "Outflow"}[bf]
}

// NewBCFLAG looks up a boundary condition family by any of its names
func NewBCFLAG(name string) (bf BCFLAG, err error) {
	var ok bool
	if bf, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown boundary condition type %q", name)
	}
	return
}

/*
BCTAG is a boundary marker as it appears in mesh files and input decks, a
family name optionally followed by a label, e.g. "Wall-top" or "Outflow-22".
*/
type BCTAG string

func NewBCTAG(token string) BCTAG {
	return BCTAG(strings.TrimSpace(token))
}

func (bt BCTAG) split() (name, label string) {
	name, label, _ = strings.Cut(string(bt), "-")
	return
}

// GetFLAG returns BC_None for names that are not boundary families
func (bt BCTAG) GetFLAG() BCFLAG {
	name, _ := bt.split()
	return BCNameMap[strings.ToLower(name)]
}

func (bt BCTAG) GetLabel() (label string) {
	_, label = bt.split()
	return
}
