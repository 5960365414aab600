package geometry

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Normal2D is the edge a->b rotated by -90 degrees, (-(b.y-a.y), b.x-a.x).
// Its length is the edge length. For a counter clockwise polygon it points
// into the polygon interior when traversed a->b, so callers own orientation.
func Normal2D(a, b r2.Vec) r2.Vec {
	return r2.Vec{
		X: -(b.Y - a.Y),
		Y: b.X - a.X,
	}
}

// Normal3D is the two vector form a x b
func Normal3D(a, b r3.Vec) r3.Vec {
	return r3.Cross(a, b)
}

// EdgeNormal is the outward area vector of a 2D edge a->b for a counter
// clockwise cell, embedded in the Z=0 plane. Its length is the edge length.
func EdgeNormal(a, b r2.Vec) r3.Vec {
	n := Normal2D(a, b)
	return r3.Vec{X: -n.X, Y: -n.Y}
}

// FaceNormal returns the area vector of an ordered polygon, right hand rule
// orientation. The result is post-halved: its length equals the face area.
//
//	3 points: 1/2 (p1-p0) x (p2-p0)
//	4 points: 1/2 (p2-p0) x (p3-p1), exact for a bilinear patch
//	n points: sum of 1/2 (p[i]-m) x (p[i+1]-m) around the vertex average m
//
// Fewer than three points, or coincident points, yield the zero vector.
func FaceNormal(points ...r3.Vec) (n r3.Vec) {
	switch len(points) {
	case 0, 1, 2:
		return
	case 3:
		n = r3.Cross(r3.Sub(points[1], points[0]), r3.Sub(points[2], points[0]))
	case 4:
		n = r3.Cross(r3.Sub(points[2], points[0]), r3.Sub(points[3], points[1]))
	default:
		m := Average3D(points...)
		for i := range points {
			a, b := points[i], points[(i+1)%len(points)]
			n = r3.Add(n, r3.Cross(r3.Sub(a, m), r3.Sub(b, m)))
		}
	}
	n = r3.Scale(0.5, n)
	return
}

// FaceCenter is the centroid of an ordered polygon, from the same midpoint
// fan used by FaceNormal. Degenerate faces return the vertex average.
func FaceCenter(points ...r3.Vec) (c r3.Vec) {
	m := Average3D(points...)
	if len(points) <= 3 {
		return m
	}
	var (
		total float64
		nf    = FaceNormal(points...)
	)
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		w := r3.Dot(r3.Cross(r3.Sub(a, m), r3.Sub(b, m)), nf)
		c = r3.Add(c, r3.Scale(w, Average3D(m, a, b)))
		total += w
	}
	if total == 0 {
		return m
	}
	c = r3.Scale(1./total, c)
	return
}
