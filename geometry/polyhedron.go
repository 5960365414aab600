package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrDegenerateFace = errors.New("degenerate face")
	ErrOpenPolyhedron = errors.New("polyhedron faces do not close a volume")
)

// Polyhedron is a closed surface built one face at a time. Each face is an
// ordered point ring whose right hand normal points out of the volume. Faces
// own copies of their coordinates.
//
// Centroid, Midpoint and Volume trust the caller to supply a closed,
// consistently wound set of faces; Validate checks that explicitly.
type Polyhedron struct {
	Faces [][]r3.Vec
}

func NewPolyhedron(faces ...[]r3.Vec) (p *Polyhedron) {
	p = &Polyhedron{
		Faces: make([][]r3.Vec, 0, len(faces)),
	}
	for _, f := range faces {
		p.Insert(f...)
	}
	return
}

// Insert appends a copy of the face
func (p *Polyhedron) Insert(face ...r3.Vec) {
	f := make([]r3.Vec, len(face))
	copy(f, face)
	p.Faces = append(p.Faces, f)
}

// Midpoint is the mean of the distinct vertex positions
func (p *Polyhedron) Midpoint() r3.Vec {
	var all []r3.Vec
	for _, f := range p.Faces {
		all = append(all, f...)
	}
	return Average3D(Distinct3D(all)...)
}

// Volume is the signed sum of the tetrahedra formed by fanning each face
// around its own vertex average and closing on the polyhedron midpoint.
func (p *Polyhedron) Volume() (vol float64) {
	ref := p.Midpoint()
	for _, f := range p.Faces {
		v, _ := fanFace(ref, f)
		vol += v
	}
	return
}

// Centroid is the volume weighted centroid of the same tetrahedra. A zero
// volume polyhedron returns its midpoint.
func (p *Polyhedron) Centroid() r3.Vec {
	var (
		ref    = p.Midpoint()
		vol    float64
		moment r3.Vec
	)
	for _, f := range p.Faces {
		v, m := fanFace(ref, f)
		vol += v
		moment = r3.Add(moment, m)
	}
	if vol == 0 {
		return ref
	}
	return r3.Scale(1./vol, moment)
}

// Bounds is the axis aligned box around all face vertices
func (p *Polyhedron) Bounds() (b r3.Box) {
	first := true
	for _, f := range p.Faces {
		for _, pt := range f {
			if first {
				b.Min, b.Max = pt, pt
				first = false
				continue
			}
			b.Min = r3.Vec{X: math.Min(b.Min.X, pt.X), Y: math.Min(b.Min.Y, pt.Y), Z: math.Min(b.Min.Z, pt.Z)}
			b.Max = r3.Vec{X: math.Max(b.Max.X, pt.X), Y: math.Max(b.Max.Y, pt.Y), Z: math.Max(b.Max.Z, pt.Z)}
		}
	}
	return
}

// Validate checks that every face has at least three points and a non zero
// area, and that every directed edge is matched by exactly one reversed edge
// in another face.
func (p *Polyhedron) Validate() error {
	type edge [2]r3.Vec
	edges := make(map[edge]int)
	for i, f := range p.Faces {
		if len(f) < 3 {
			return fmt.Errorf("face %d has %d points: %w", i, len(f), ErrDegenerateFace)
		}
		if r3.Norm(FaceNormal(f...)) == 0 {
			return fmt.Errorf("face %d has zero area: %w", i, ErrDegenerateFace)
		}
		for j := range f {
			e := edge{f[j], f[(j+1)%len(f)]}
			if e[0] == e[1] {
				return fmt.Errorf("face %d has a zero length edge at %v: %w", i, e[0], ErrDegenerateFace)
			}
			edges[e]++
		}
	}
	for e, count := range edges {
		if count != 1 {
			return fmt.Errorf("edge %v -> %v used %d times: %w", e[0], e[1], count, ErrOpenPolyhedron)
		}
		if edges[edge{e[1], e[0]}] != 1 {
			return fmt.Errorf("edge %v -> %v has no reversed partner: %w", e[0], e[1], ErrOpenPolyhedron)
		}
	}
	return nil
}

// fanFace returns the signed volume and first moment of the tetrahedra
// (ref, fm, face[i], face[i+1]) where fm is the face vertex average.
// Triangles are used directly.
func fanFace(ref r3.Vec, face []r3.Vec) (vol float64, moment r3.Vec) {
	n := len(face)
	switch {
	case n < 3:
		return
	case n == 3:
		return tetMoment(face[0], face[1], face[2], ref)
	}
	fm := Average3D(face...)
	for i := 0; i < n; i++ {
		v, m := tetMoment(fm, face[i], face[(i+1)%n], ref)
		vol += v
		moment = r3.Add(moment, m)
	}
	return
}

// tetMoment is the signed volume of the tetrahedron whose base (a, b, c)
// has its right hand normal pointing away from apex d, and its volume
// weighted centroid.
func tetMoment(a, b, c, d r3.Vec) (vol float64, moment r3.Vec) {
	vol = TripleProduct(r3.Sub(b, a), r3.Sub(c, a), r3.Sub(a, d)) / 6.
	moment = r3.Scale(vol, Average3D(a, b, c, d))
	return
}
