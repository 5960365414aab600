package geometry

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// TripleProduct returns (a x b) . c
func TripleProduct(a, b, c r3.Vec) float64 {
	return r3.Dot(r3.Cross(a, b), c)
}

// Average2D is the unweighted mean of the points, duplicates included
func Average2D(points ...r2.Vec) (m r2.Vec) {
	if len(points) == 0 {
		return
	}
	for _, p := range points {
		m = r2.Add(m, p)
	}
	m = r2.Scale(1./float64(len(points)), m)
	return
}

// Average3D is the unweighted mean of the points, duplicates included
func Average3D(points ...r3.Vec) (m r3.Vec) {
	if len(points) == 0 {
		return
	}
	for _, p := range points {
		m = r3.Add(m, p)
	}
	m = r3.Scale(1./float64(len(points)), m)
	return
}

// Distinct2D returns the points with exact duplicates removed, first
// occurrence order preserved
func Distinct2D(points []r2.Vec) (unique []r2.Vec) {
	seen := make(map[r2.Vec]struct{}, len(points))
	unique = make([]r2.Vec, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	return
}

// Distinct3D returns the points with exact duplicates removed, first
// occurrence order preserved
func Distinct3D(points []r3.Vec) (unique []r3.Vec) {
	seen := make(map[r3.Vec]struct{}, len(points))
	unique = make([]r3.Vec, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	return
}

// Embed lifts a 2D vector into the Z=0 plane
func Embed(v r2.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y}
}

// Project drops the Z component
func Project(v r3.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}
