package Hydro

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/eos"
)

// Mesh is what the kernels need from a mesh. FaceNormal is a unit vector
// pointing out of FaceCells(f)[0], and FaceCells returns one (boundary) or
// two cells in a stable order.
type Mesh interface {
	NumDimensions() int
	NumCells() int
	NumFaces() int
	CellVolume(c int) float64
	CellCentroid(c int) r3.Vec
	CellFaces(c int) []int
	FaceArea(f int) float64
	FaceNormal(f int) r3.Vec
	FaceCells(f int) []int
	FaceTag(f int) int
}

// Context carries the physics every kernel phase needs. It is built once at
// setup and only read afterward.
type Context struct {
	EOS      eos.EOS
	FluxType FluxType
	Flux     FluxFunction
	BCs      map[int]BoundaryCondition // by boundary tag
	CFL      float64
}

func NewContext(e eos.EOS, ft FluxType, cfl float64) (ctx *Context, err error) {
	if e == nil {
		err = fmt.Errorf("%w: missing equation of state", ErrConfiguration)
		return
	}
	if !(cfl > 0) {
		err = fmt.Errorf("%w: CFL must be > 0, have %v", ErrConfiguration, cfl)
		return
	}
	ctx = &Context{
		EOS:      e,
		FluxType: ft,
		Flux:     ft.Function(),
		BCs:      make(map[int]BoundaryCondition),
		CFL:      cfl,
	}
	return
}

func (ctx *Context) SetBC(tag int, bc BoundaryCondition) {
	ctx.BCs[tag] = bc
}

// BoundaryFlux applies the policy registered for tag
func (ctx *Context) BoundaryFlux(tag int, w State, n r3.Vec) (f Conserved, err error) {
	bc, ok := ctx.BCs[tag]
	if !ok {
		err = fmt.Errorf("%w: no boundary condition for tag %d", ErrConfiguration, tag)
		return
	}
	return bc.Flux(w, n, ctx.Flux)
}

// CheckBoundaries verifies that every boundary tag of m has a policy
func (ctx *Context) CheckBoundaries(m Mesh) error {
	missing := make(map[int]bool)
	for f := 0; f < m.NumFaces(); f++ {
		if len(m.FaceCells(f)) != 1 {
			continue
		}
		if _, ok := ctx.BCs[m.FaceTag(f)]; !ok {
			missing[m.FaceTag(f)] = true
		}
	}
	if len(missing) == 0 {
		return nil
	}
	tags := make([]int, 0, len(missing))
	for tag := range missing {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return fmt.Errorf("%w: no boundary condition for tags %v", ErrConfiguration, tags)
}
