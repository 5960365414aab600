package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Boundary tags of the box generators
const (
	TagXMin = iota + 1
	TagXMax
	TagYMin
	TagYMax
	TagZMin
	TagZMax
)

var boxTagNames = map[int]string{
	TagXMin: "xmin", TagXMax: "xmax",
	TagYMin: "ymin", TagYMax: "ymax",
	TagZMin: "zmin", TagZMax: "zmax",
}

// NewBox builds a structured quad (2 dimensions) or hex (3 dimensions) mesh
// centered on the origin, with one boundary tag per box side
func NewBox(dims []int, lengths []float64) (m *Mesh, err error) {
	if len(dims) != len(lengths) {
		err = fmt.Errorf("box has %d dimensions but %d lengths", len(dims), len(lengths))
		return
	}
	for i := range dims {
		if dims[i] < 1 || !(lengths[i] > 0) {
			err = fmt.Errorf("box dimension %d: need cells >= 1 and length > 0, have %d, %v",
				i, dims[i], lengths[i])
			return
		}
	}
	switch len(dims) {
	case 2:
		m = newBox2D(dims[0], dims[1], lengths[0], lengths[1])
	case 3:
		m = newBox3D(dims[0], dims[1], dims[2], lengths[0], lengths[1], lengths[2])
	default:
		err = fmt.Errorf("box mesh must have 2 or 3 dimensions, have %d", len(dims))
		return
	}
	err = m.BuildConnectivity()
	return
}

func newBox2D(nx, ny int, lx, ly float64) (m *Mesh) {
	m = NewMesh(2)
	vid := func(i, j int) int { return i + j*(nx+1) }
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.Vertices = append(m.Vertices, r3.Vec{
				X: lx * (float64(i)/float64(nx) - 0.5),
				Y: ly * (float64(j)/float64(ny) - 0.5),
			})
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			m.AddElement(Quad, []int{vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)}, 0)
		}
	}
	for j := 0; j < ny; j++ {
		m.MarkBoundary([]int{vid(0, j), vid(0, j+1)}, TagXMin, boxTagNames[TagXMin])
		m.MarkBoundary([]int{vid(nx, j), vid(nx, j+1)}, TagXMax, boxTagNames[TagXMax])
	}
	for i := 0; i < nx; i++ {
		m.MarkBoundary([]int{vid(i, 0), vid(i+1, 0)}, TagYMin, boxTagNames[TagYMin])
		m.MarkBoundary([]int{vid(i, ny), vid(i+1, ny)}, TagYMax, boxTagNames[TagYMax])
	}
	return
}

func newBox3D(nx, ny, nz int, lx, ly, lz float64) (m *Mesh) {
	m = NewMesh(3)
	vid := func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Vertices = append(m.Vertices, r3.Vec{
					X: lx * (float64(i)/float64(nx) - 0.5),
					Y: ly * (float64(j)/float64(ny) - 0.5),
					Z: lz * (float64(k)/float64(nz) - 0.5),
				})
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				m.AddElement(Hex, []int{
					vid(i, j, k), vid(i+1, j, k), vid(i+1, j+1, k), vid(i, j+1, k),
					vid(i, j, k+1), vid(i+1, j, k+1), vid(i+1, j+1, k+1), vid(i, j+1, k+1),
				}, 0)
			}
		}
	}
	quad := func(a, b, c, d int, tag int) {
		m.MarkBoundary([]int{a, b, c, d}, tag, boxTagNames[tag])
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			quad(vid(0, j, k), vid(0, j+1, k), vid(0, j+1, k+1), vid(0, j, k+1), TagXMin)
			quad(vid(nx, j, k), vid(nx, j+1, k), vid(nx, j+1, k+1), vid(nx, j, k+1), TagXMax)
		}
	}
	for k := 0; k < nz; k++ {
		for i := 0; i < nx; i++ {
			quad(vid(i, 0, k), vid(i+1, 0, k), vid(i+1, 0, k+1), vid(i, 0, k+1), TagYMin)
			quad(vid(i, ny, k), vid(i+1, ny, k), vid(i+1, ny, k+1), vid(i, ny, k+1), TagYMax)
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			quad(vid(i, j, 0), vid(i+1, j, 0), vid(i+1, j+1, 0), vid(i, j+1, 0), TagZMin)
			quad(vid(i, j, nz), vid(i+1, j, nz), vid(i+1, j+1, nz), vid(i, j+1, nz), TagZMax)
		}
	}
	return
}

// Perturb moves every vertex not on the boundary through f and refreshes the
// cached geometry
func (m *Mesh) Perturb(f func(p r3.Vec) r3.Vec) {
	onBoundary := make(map[int]bool)
	for _, face := range m.Faces {
		if face.IsBoundary() {
			for _, v := range face.Vertices {
				onBoundary[v] = true
			}
		}
	}
	for v := range m.Vertices {
		if !onBoundary[v] {
			m.Vertices[v] = f(m.Vertices[v])
		}
	}
	m.ComputeGeometry()
}
