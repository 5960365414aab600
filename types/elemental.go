package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// Two 32 bit unsigned halves, smaller index in the low half
	for _, vert := range verts {
		if vert < 0 || vert > math.MaxUint32 {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	i1, i2 := verts[0], verts[1]
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	packed = EdgeKey(uint64(i1) | uint64(i2)<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0] = int(ek & math.MaxUint32)
	verts[1] = int(ek >> 32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

/*
FaceKey identifies a face by its vertex set regardless of winding or start
vertex. Two vertex faces pack into an EdgeKey, larger faces into the sorted
index list.
*/
type FaceKey string

func NewFaceKey(verts []int) FaceKey {
	if len(verts) == 2 {
		return FaceKey(fmt.Sprintf("e%d", NewEdgeKey([2]int{verts[0], verts[1]})))
	}
	sorted := make([]int, len(verts))
	copy(sorted, verts)
	sort.Ints(sorted)
	return FaceKey(fmt.Sprintf("%v", sorted))
}
