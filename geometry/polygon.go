package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is an ordered ring of 2D points. Counter clockwise ordering gives
// a positive area.
type Polygon struct {
	Points []r2.Vec
}

func NewPolygon(points ...r2.Vec) (p *Polygon) {
	p = &Polygon{}
	p.Insert(points...)
	return
}

// Insert appends points to the ring
func (p *Polygon) Insert(points ...r2.Vec) {
	p.Points = append(p.Points, points...)
}

// Midpoint is the mean of the distinct vertices
func (p *Polygon) Midpoint() r2.Vec {
	return Average2D(Distinct2D(p.Points)...)
}

// Area is the signed area from a triangle fan around the midpoint
func (p *Polygon) Area() (area float64) {
	area, _ = p.fan()
	return
}

// Centroid is the area weighted centroid of the triangle fan. A zero area
// polygon returns its midpoint.
func (p *Polygon) Centroid() r2.Vec {
	area, moment := p.fan()
	if area == 0 {
		return p.Midpoint()
	}
	return r2.Scale(1./area, moment)
}

func (p *Polygon) fan() (area float64, moment r2.Vec) {
	var (
		n = len(p.Points)
		m = p.Midpoint()
	)
	if n < 3 {
		return
	}
	for i := 0; i < n; i++ {
		a, b := p.Points[i], p.Points[(i+1)%n]
		ai := 0.5 * r2.Cross(r2.Sub(a, m), r2.Sub(b, m))
		area += ai
		moment = r2.Add(moment, r2.Scale(ai, Average2D(m, a, b)))
	}
	return
}

// Bounds is the axis aligned box around the vertices
func (p *Polygon) Bounds() (b r2.Box) {
	if len(p.Points) == 0 {
		return
	}
	b.Min, b.Max = p.Points[0], p.Points[0]
	for _, pt := range p.Points[1:] {
		b.Min = r2.Vec{X: math.Min(b.Min.X, pt.X), Y: math.Min(b.Min.Y, pt.Y)}
		b.Max = r2.Vec{X: math.Max(b.Max.X, pt.X), Y: math.Max(b.Max.Y, pt.Y)}
	}
	return
}
