package mesh

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/geometry"
	"github.com/notargets/fvhydro/types"
)

var (
	ErrInvertedCell = errors.New("cell has non-positive volume")
	ErrZeroAreaFace = errors.New("face has zero area")
	ErrNonManifold  = errors.New("face shared by more than two cells")
)

// ElementType represents different element types
type ElementType int

const (
	Line ElementType = iota
	Triangle
	Quad
	Tet
	Hex
	Prism
	Pyramid
)

func (e ElementType) String() string {
	return [...]string{"Line", "Triangle", "Quad", "Tet", "Hex", "Prism", "Pyramid"}[e]
}

// Dimension is the spatial dimension of the element
func (e ElementType) Dimension() int {
	switch e {
	case Line:
		return 1
	case Triangle, Quad:
		return 2
	default:
		return 3
	}
}

// Face is a cell boundary patch. Vertices are wound so Normal points out of
// Cells[0] and into Cells[1] when there is one.
type Face struct {
	Vertices []int
	Cells    []int // 1 (boundary) or 2 (interior) cells, owner first
	Tag      int   // boundary tag, 0 on interior faces
	Area     float64
	Normal   r3.Vec // unit
	Centroid r3.Vec
}

func (f *Face) IsBoundary() bool { return len(f.Cells) == 1 }

// Mesh is an unstructured 2D or 3D mesh with face connectivity and cached
// cell and face geometry. 2D meshes live in the Z=0 plane.
type Mesh struct {
	Dimensions int
	Vertices   []r3.Vec

	// Element data
	Elements     [][]int       // Element to vertex connectivity [nelems][nverts_per_elem]
	ElementTypes []ElementType // Element type for each element
	ElementTags  []int         // Physical group/tag for each element

	// Connectivity (built during initialization)
	EToE [][]int // Element to element connectivity, -1 on the boundary
	EToF [][]int // Element to face connectivity

	// Face data
	Faces        []Face
	FaceMap      map[types.FaceKey]int
	BoundaryTags map[int]string // tag -> marker name

	// Cell geometry
	Volumes   []float64
	Centroids []r3.Vec

	markedFaces map[types.FaceKey]int // boundary tags read before connectivity

	NumElements int
	NumVertices int
}

func NewMesh(dimensions int) *Mesh {
	return &Mesh{
		Dimensions:   dimensions,
		FaceMap:      make(map[types.FaceKey]int),
		BoundaryTags: make(map[int]string),
		markedFaces:  make(map[types.FaceKey]int),
	}
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".su2":
		return ReadSU2(filename)
	case ".neu":
		return ReadGambit(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// AddElement appends a cell
func (m *Mesh) AddElement(etype ElementType, verts []int, tag int) {
	m.Elements = append(m.Elements, verts)
	m.ElementTypes = append(m.ElementTypes, etype)
	m.ElementTags = append(m.ElementTags, tag)
}

// MarkBoundary tags the boundary face with the given vertices. It must be
// called before BuildConnectivity.
func (m *Mesh) MarkBoundary(verts []int, tag int, name string) {
	m.markedFaces[types.NewFaceKey(verts)] = tag
	if _, ok := m.BoundaryTags[tag]; !ok {
		m.BoundaryTags[tag] = name
	}
}

// BuildConnectivity orients every cell positively, registers each unique
// face once with its first cell as owner, and computes cell and face
// geometry. Face normals point out of the owner.
func (m *Mesh) BuildConnectivity() (err error) {
	m.NumElements = len(m.Elements)
	m.NumVertices = len(m.Vertices)
	m.orientElements()

	m.EToE = make([][]int, m.NumElements)
	m.EToF = make([][]int, m.NumElements)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[types.FaceKey]int)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		faceVertices := GetElementFaces(m.ElementTypes[elemID], m.Elements[elemID])
		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))
		for localFaceID, faceVerts := range faceVertices {
			m.EToE[elemID][localFaceID] = -1
			key := types.NewFaceKey(faceVerts)
			if faceID, exists := m.FaceMap[key]; exists {
				// Face already exists - this is an interior face
				face := &m.Faces[faceID]
				if len(face.Cells) == 2 {
					return fmt.Errorf("face %v: %w", faceVerts, ErrNonManifold)
				}
				neighbor := face.Cells[0]
				face.Cells = append(face.Cells, elemID)
				m.EToE[elemID][localFaceID] = neighbor
				for i, f := range m.EToF[neighbor] {
					if f == faceID {
						m.EToE[neighbor][i] = elemID
					}
				}
				m.EToF[elemID][localFaceID] = faceID
			} else {
				faceID = len(m.Faces)
				m.Faces = append(m.Faces, Face{
					Vertices: faceVerts,
					Cells:    []int{elemID},
				})
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		if f.IsBoundary() {
			f.Tag = m.markedFaces[types.NewFaceKey(f.Vertices)]
		}
	}
	m.ComputeGeometry()
	return
}

// ComputeGeometry refreshes cached cell volumes, centroids and face area
// vectors from the current vertex positions
func (m *Mesh) ComputeGeometry() {
	m.Volumes = make([]float64, m.NumElements)
	m.Centroids = make([]r3.Vec, m.NumElements)
	for k := 0; k < m.NumElements; k++ {
		m.Volumes[k], m.Centroids[k] = m.cellGeometry(k)
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		pts := m.points(f.Vertices)
		var area r3.Vec
		if m.Dimensions == 2 {
			area = geometry.EdgeNormal(geometry.Project(pts[0]), geometry.Project(pts[1]))
			f.Centroid = geometry.Average3D(pts...)
		} else {
			area = geometry.FaceNormal(pts...)
			f.Centroid = geometry.FaceCenter(pts...)
		}
		f.Area = r3.Norm(area)
		if f.Area > 0 {
			f.Normal = r3.Scale(1./f.Area, area)
		} else {
			f.Normal = r3.Vec{}
		}
	}
}

func (m *Mesh) cellGeometry(k int) (vol float64, centroid r3.Vec) {
	pts := m.points(m.Elements[k])
	switch m.ElementTypes[k] {
	case Triangle, Quad:
		poly := &geometry.Polygon{}
		for _, p := range pts {
			poly.Insert(geometry.Project(p))
		}
		vol, centroid = poly.Area(), geometry.Embed(poly.Centroid())
	default:
		shape, err := geometry.NewShape3D(pts)
		if err != nil {
			return
		}
		vol, centroid = shape.Volume(), shape.Centroid()
	}
	return
}

// orientElements reorders cells with negative measure so that all faces from
// the element tables point outward
func (m *Mesh) orientElements() {
	for k := range m.Elements {
		if len(m.Elements[k]) < 3 {
			continue
		}
		if vol, _ := m.cellGeometry(k); vol >= 0 {
			continue
		}
		v := m.Elements[k]
		switch m.ElementTypes[k] {
		case Triangle, Quad:
			for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
				v[i], v[j] = v[j], v[i]
			}
		case Tet:
			v[1], v[2] = v[2], v[1]
		case Hex:
			v[1], v[3] = v[3], v[1]
			v[5], v[7] = v[7], v[5]
		case Prism:
			v[1], v[2] = v[2], v[1]
			v[4], v[5] = v[5], v[4]
		case Pyramid:
			v[1], v[3] = v[3], v[1]
		}
	}
}

func (m *Mesh) points(verts []int) (pts []r3.Vec) {
	pts = make([]r3.Vec, len(verts))
	for i, v := range verts {
		pts[i] = m.Vertices[v]
	}
	return
}

// CheckGeometry reports the first inverted cell or zero area face
func (m *Mesh) CheckGeometry() error {
	for k, vol := range m.Volumes {
		if !(vol > 0) {
			return fmt.Errorf("cell %d volume %g: %w", k, vol, ErrInvertedCell)
		}
	}
	for i, f := range m.Faces {
		if !(f.Area > 0) {
			return fmt.Errorf("face %d: %w", i, ErrZeroAreaFace)
		}
	}
	return nil
}

// GetElementFaces returns the face vertices for each element type, wound
// outward for a positively oriented element
func GetElementFaces(elemType ElementType, vertices []int) (faces [][]int) {
	var table [][]int
	switch elemType {
	case Triangle, Quad:
		n := len(vertices)
		for i := 0; i < n; i++ {
			faces = append(faces, []int{vertices[i], vertices[(i+1)%n]})
		}
		return
	case Tet:
		table = geometry.TetrahedronFaces
	case Hex:
		table = geometry.HexahedronFaces
	case Prism:
		table = geometry.WedgeFaces
	case Pyramid:
		table = geometry.PyramidFaces
	default:
		return [][]int{}
	}
	faces = make([][]int, len(table))
	for i, f := range table {
		faces[i] = make([]int, len(f))
		for j, v := range f {
			faces[i][j] = vertices[v]
		}
	}
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Dimensions: %d\n", m.Dimensions)
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d\n", m.NumElements)
	fmt.Printf("  Faces: %d\n", len(m.Faces))

	typeCounts := make(map[ElementType]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}
	fmt.Printf("  Element types:\n")
	for t := Line; t <= Pyramid; t++ {
		if count := typeCounts[t]; count > 0 {
			fmt.Printf("    %s: %d\n", t, count)
		}
	}
	tagCounts := make(map[int]int)
	for _, f := range m.Faces {
		if f.IsBoundary() {
			tagCounts[f.Tag]++
		}
	}
	tags := make([]int, 0, len(tagCounts))
	for tag := range tagCounts {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	fmt.Printf("  Boundary faces by tag:\n")
	for _, tag := range tags {
		fmt.Printf("    %d [%s]: %d\n", tag, m.BoundaryTags[tag], tagCounts[tag])
	}
}

/*
Accessors consumed by the hydro kernels
*/

func (m *Mesh) NumDimensions() int        { return m.Dimensions }
func (m *Mesh) NumCells() int             { return m.NumElements }
func (m *Mesh) NumFaces() int             { return len(m.Faces) }
func (m *Mesh) CellVolume(k int) float64  { return m.Volumes[k] }
func (m *Mesh) CellCentroid(k int) r3.Vec { return m.Centroids[k] }
func (m *Mesh) CellFaces(k int) []int     { return m.EToF[k] }
func (m *Mesh) FaceArea(f int) float64    { return m.Faces[f].Area }
func (m *Mesh) FaceNormal(f int) r3.Vec   { return m.Faces[f].Normal }
func (m *Mesh) FaceCells(f int) []int     { return m.Faces[f].Cells }
func (m *Mesh) FaceTag(f int) int         { return m.Faces[f].Tag }
