package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type ShapeType uint8

const (
	ShapeTriangle ShapeType = iota
	ShapeQuadrilateral
	ShapeTetrahedron
	ShapeHexahedron
	ShapeWedge
	ShapePyramid
)

func (st ShapeType) String() string {
	return [...]string{"Triangle", "Quadrilateral", "Tetrahedron", "Hexahedron", "Wedge", "Pyramid"}[st]
}

// Face tables, local vertex indices wound so each face normal points out of
// the cell and adjacent faces traverse their shared edge in opposite order.
var (
	TetrahedronFaces = [][]int{
		{0, 2, 1}, // base
		{0, 1, 3},
		{1, 2, 3},
		{0, 3, 2},
	}
	HexahedronFaces = [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
	}
	WedgeFaces = [][]int{
		{0, 2, 1}, // bottom tri
		{3, 4, 5}, // top tri
		{0, 1, 4, 3},
		{1, 2, 5, 4},
		{2, 0, 3, 5},
	}
	PyramidFaces = [][]int{
		{0, 3, 2, 1}, // base quad
		{0, 1, 4},
		{1, 2, 4},
		{2, 3, 4},
		{3, 0, 4},
	}
)

type Shape2D interface {
	Type() ShapeType
	Centroid() r2.Vec
	Midpoint() r2.Vec
	Area() float64
}

type Shape3D interface {
	Type() ShapeType
	Centroid() r3.Vec
	Midpoint() r3.Vec
	Volume() float64
}

// NewShape3D picks the cell shape from the vertex count
func NewShape3D(points []r3.Vec) (Shape3D, error) {
	switch len(points) {
	case 4:
		return Tetrahedron(points), nil
	case 5:
		return Pyramid(points), nil
	case 6:
		return Wedge(points), nil
	case 8:
		return Hexahedron(points), nil
	default:
		return nil, fmt.Errorf("no 3D shape with %d vertices", len(points))
	}
}

// NewShape2D picks the cell shape from the vertex count
func NewShape2D(points []r2.Vec) (Shape2D, error) {
	switch len(points) {
	case 3:
		return Triangle(points), nil
	case 4:
		return Quadrilateral(points), nil
	default:
		return nil, fmt.Errorf("no 2D shape with %d vertices", len(points))
	}
}

// Volumes measures a homogeneous slice of shapes
func Volumes[S Shape3D](shapes []S) (vols []float64) {
	vols = make([]float64, len(shapes))
	for i, s := range shapes {
		vols[i] = s.Volume()
	}
	return
}

// Areas measures a homogeneous slice of shapes
func Areas[S Shape2D](shapes []S) (areas []float64) {
	areas = make([]float64, len(shapes))
	for i, s := range shapes {
		areas[i] = s.Area()
	}
	return
}

// PolyhedronFromTable builds the general polyhedron for a cell using one of
// the face tables above
func PolyhedronFromTable(points []r3.Vec, table [][]int) (p *Polyhedron) {
	p = &Polyhedron{Faces: make([][]r3.Vec, 0, len(table))}
	for _, f := range table {
		face := make([]r3.Vec, len(f))
		for i, v := range f {
			face[i] = points[v]
		}
		p.Faces = append(p.Faces, face)
	}
	return
}

func tableMoment(points []r3.Vec, table [][]int) (vol float64, moment r3.Vec) {
	var (
		ref  = Average3D(points...)
		face [4]r3.Vec
	)
	for _, f := range table {
		for i, v := range f {
			face[i] = points[v]
		}
		v, m := fanFace(ref, face[:len(f)])
		vol += v
		moment = r3.Add(moment, m)
	}
	return
}

func tableCentroid(points []r3.Vec, table [][]int) r3.Vec {
	vol, moment := tableMoment(points, table)
	if vol == 0 {
		return Average3D(points...)
	}
	return r3.Scale(1./vol, moment)
}

/*
2D shapes
*/

func TriangleArea(a, b, c r2.Vec) float64 {
	return 0.5 * r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

func TriangleCentroid(a, b, c r2.Vec) r2.Vec {
	return Average2D(a, b, c)
}

// QuadrilateralArea is half the cross product of the diagonals
func QuadrilateralArea(a, b, c, d r2.Vec) float64 {
	return 0.5 * r2.Cross(r2.Sub(c, a), r2.Sub(d, b))
}

// QuadrilateralCentroid splits along the a-c diagonal into two signed
// triangles
func QuadrilateralCentroid(a, b, c, d r2.Vec) r2.Vec {
	var (
		a1 = TriangleArea(a, b, c)
		a2 = TriangleArea(a, c, d)
	)
	if a1+a2 == 0 {
		return Average2D(a, b, c, d)
	}
	return r2.Scale(1./(a1+a2), r2.Add(
		r2.Scale(a1, TriangleCentroid(a, b, c)),
		r2.Scale(a2, TriangleCentroid(a, c, d))))
}

type Triangle [3]r2.Vec

func (t Triangle) Type() ShapeType  { return ShapeTriangle }
func (t Triangle) Area() float64    { return TriangleArea(t[0], t[1], t[2]) }
func (t Triangle) Centroid() r2.Vec { return TriangleCentroid(t[0], t[1], t[2]) }
func (t Triangle) Midpoint() r2.Vec { return Average2D(t[:]...) }

type Quadrilateral [4]r2.Vec

func (q Quadrilateral) Type() ShapeType { return ShapeQuadrilateral }
func (q Quadrilateral) Area() float64   { return QuadrilateralArea(q[0], q[1], q[2], q[3]) }
func (q Quadrilateral) Centroid() r2.Vec {
	return QuadrilateralCentroid(q[0], q[1], q[2], q[3])
}
func (q Quadrilateral) Midpoint() r2.Vec { return Average2D(q[:]...) }

/*
3D shapes
*/

// TetrahedronVolume is positive when d lies on the side of triangle (a, b, c)
// that its right hand normal points to
func TetrahedronVolume(a, b, c, d r3.Vec) float64 {
	return TripleProduct(r3.Sub(b, a), r3.Sub(c, a), r3.Sub(d, a)) / 6.
}

func TetrahedronCentroid(a, b, c, d r3.Vec) r3.Vec {
	return Average3D(a, b, c, d)
}

// HexahedronVolume sums the six face pyramids sharing the vertex average,
// (1/3) (fc - m) . A per face, with A the bilinear area vector and fc the
// face vertex average
func HexahedronVolume(p0, p1, p2, p3, p4, p5, p6, p7 r3.Vec) (vol float64) {
	var (
		pts = [8]r3.Vec{p0, p1, p2, p3, p4, p5, p6, p7}
		m   = Average3D(pts[:]...)
	)
	for _, f := range HexahedronFaces {
		a, b, c, d := pts[f[0]], pts[f[1]], pts[f[2]], pts[f[3]]
		area := FaceNormal(a, b, c, d)
		vol += r3.Dot(r3.Sub(Average3D(a, b, c, d), m), area)
	}
	vol /= 3.
	return
}

// HexahedronVolumeGrandy is Grandy's diagonal formula. Each triple product
// is made positive on its own before summing.
func HexahedronVolumeGrandy(p0, p1, p2, p3, p4, p5, p6, p7 r3.Vec) float64 {
	var (
		d20 = r3.Sub(p2, p0)
		d50 = r3.Sub(p5, p0)
		d61 = r3.Sub(p6, p1)
		d63 = r3.Sub(p6, p3)
		d64 = r3.Sub(p6, p4)
		d70 = r3.Sub(p7, p0)
	)
	det := math.Abs(TripleProduct(r3.Add(d61, d70), d63, d20)) +
		math.Abs(TripleProduct(d70, r3.Add(d63, d50), d64)) +
		math.Abs(TripleProduct(d61, d50, r3.Add(d64, d20)))
	return det / 12.
}

func HexahedronCentroid(p0, p1, p2, p3, p4, p5, p6, p7 r3.Vec) r3.Vec {
	return tableCentroid([]r3.Vec{p0, p1, p2, p3, p4, p5, p6, p7}, HexahedronFaces)
}

func WedgeVolume(p0, p1, p2, p3, p4, p5 r3.Vec) (vol float64) {
	vol, _ = tableMoment([]r3.Vec{p0, p1, p2, p3, p4, p5}, WedgeFaces)
	return
}

func WedgeCentroid(p0, p1, p2, p3, p4, p5 r3.Vec) r3.Vec {
	return tableCentroid([]r3.Vec{p0, p1, p2, p3, p4, p5}, WedgeFaces)
}

// PyramidVolume closes the fanned base on the apex p4
func PyramidVolume(p0, p1, p2, p3, p4 r3.Vec) (vol float64) {
	vol, _ = fanFace(p4, []r3.Vec{p0, p3, p2, p1})
	return
}

func PyramidCentroid(p0, p1, p2, p3, p4 r3.Vec) r3.Vec {
	return tableCentroid([]r3.Vec{p0, p1, p2, p3, p4}, PyramidFaces)
}

type Tetrahedron [4]r3.Vec

func (t Tetrahedron) Type() ShapeType  { return ShapeTetrahedron }
func (t Tetrahedron) Volume() float64  { return TetrahedronVolume(t[0], t[1], t[2], t[3]) }
func (t Tetrahedron) Centroid() r3.Vec { return TetrahedronCentroid(t[0], t[1], t[2], t[3]) }
func (t Tetrahedron) Midpoint() r3.Vec { return Average3D(t[:]...) }

type Hexahedron [8]r3.Vec

func (h Hexahedron) Type() ShapeType { return ShapeHexahedron }
func (h Hexahedron) Volume() float64 {
	return HexahedronVolume(h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7])
}
func (h Hexahedron) VolumeGrandy() float64 {
	return HexahedronVolumeGrandy(h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7])
}
func (h Hexahedron) Centroid() r3.Vec {
	return HexahedronCentroid(h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7])
}
func (h Hexahedron) Midpoint() r3.Vec { return Average3D(h[:]...) }

type Wedge [6]r3.Vec

func (w Wedge) Type() ShapeType { return ShapeWedge }
func (w Wedge) Volume() float64 {
	return WedgeVolume(w[0], w[1], w[2], w[3], w[4], w[5])
}
func (w Wedge) Centroid() r3.Vec {
	return WedgeCentroid(w[0], w[1], w[2], w[3], w[4], w[5])
}
func (w Wedge) Midpoint() r3.Vec { return Average3D(w[:]...) }

type Pyramid [5]r3.Vec

func (p Pyramid) Type() ShapeType { return ShapePyramid }
func (p Pyramid) Volume() float64 {
	return PyramidVolume(p[0], p[1], p[2], p[3], p[4])
}
func (p Pyramid) Centroid() r3.Vec {
	return PyramidCentroid(p[0], p[1], p[2], p[3], p[4])
}
func (p Pyramid) Midpoint() r3.Vec { return Average3D(p[:]...) }
