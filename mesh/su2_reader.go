package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ReadSU2 reads an SU2 native format file
func ReadSU2(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	m, err := ParseSU2(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// ParseSU2 reads 2D (triangle, quad) and 3D (tet, hex, prism, pyramid)
// meshes. Each MARKER_TAG becomes a boundary tag numbered from 1 in file
// order.
func ParseSU2(r io.Reader) (m *Mesh, err error) {
	var (
		scanner = bufio.NewScanner(r)
		ndime   int
		nline   int
	)
	next := func() (fields []string, ok bool) {
		for scanner.Scan() {
			nline++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "%") {
				continue
			}
			return strings.Fields(line), true
		}
		return nil, false
	}
	header := func(fields []string, key string) (val string, ok bool) {
		line := strings.Join(fields, " ")
		if !strings.HasPrefix(line, key+"=") {
			return
		}
		return strings.TrimSpace(strings.TrimPrefix(line, key+"=")), true
	}
	count := func(fields []string, key string) (n int, err error) {
		val, _ := header(fields, key)
		// NPOIN may carry a second count of owned points
		if vals := strings.Fields(val); len(vals) > 0 {
			val = vals[0]
		}
		if n, err = strconv.Atoi(val); err != nil || n < 0 {
			err = fmt.Errorf("line %d: bad %s value %q", nline, key, val)
		}
		return
	}

	for {
		fields, ok := next()
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(fields[0], "NDIME="):
			if ndime, err = count(fields, "NDIME"); err != nil {
				return
			}
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("only 2D and 3D meshes are supported, got NDIME=%d", ndime)
			}
			m = NewMesh(ndime)

		case strings.HasPrefix(fields[0], "NELEM="):
			if m == nil {
				return nil, fmt.Errorf("line %d: NELEM before NDIME", nline)
			}
			var nelem int
			if nelem, err = count(fields, "NELEM"); err != nil {
				return
			}
			m.Elements = make([][]int, 0, nelem)
			for i := 0; i < nelem; i++ {
				if fields, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected end of file in element %d", i)
				}
				var (
					etype ElementType
					verts []int
				)
				if etype, verts, err = parseSU2Element(fields); err != nil {
					return nil, fmt.Errorf("line %d: %w", nline, err)
				}
				if etype.Dimension() != ndime {
					return nil, fmt.Errorf("line %d: %s element in a %dD mesh", nline, etype, ndime)
				}
				m.AddElement(etype, verts, 0)
			}

		case strings.HasPrefix(fields[0], "NPOIN="):
			if m == nil {
				return nil, fmt.Errorf("line %d: NPOIN before NDIME", nline)
			}
			var npoin int
			if npoin, err = count(fields, "NPOIN"); err != nil {
				return
			}
			m.Vertices = make([]r3.Vec, npoin)
			for i := 0; i < npoin; i++ {
				if fields, ok = next(); !ok || len(fields) < ndime {
					return nil, fmt.Errorf("line %d: bad point %d", nline, i)
				}
				var coords [3]float64
				for j := 0; j < ndime; j++ {
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("line %d: %w", nline, err)
					}
				}
				// Point ID is the optional last field
				ptID := i
				if len(fields) > ndime {
					if id, perr := strconv.Atoi(fields[len(fields)-1]); perr == nil && id >= 0 && id < npoin {
						ptID = id
					}
				}
				m.Vertices[ptID] = r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}
			}

		case strings.HasPrefix(fields[0], "NMARK="):
			if m == nil {
				return nil, fmt.Errorf("line %d: NMARK before NDIME", nline)
			}
			var nmark int
			if nmark, err = count(fields, "NMARK"); err != nil {
				return
			}
			for i := 0; i < nmark; i++ {
				if fields, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected end of file in marker %d", i)
				}
				tagName, isTag := header(fields, "MARKER_TAG")
				if !isTag {
					return nil, fmt.Errorf("line %d: expected MARKER_TAG", nline)
				}
				if fields, ok = next(); !ok {
					return nil, fmt.Errorf("unexpected end of file in marker %s", tagName)
				}
				var nMarkerElems int
				if nMarkerElems, err = count(fields, "MARKER_ELEMS"); err != nil {
					return
				}
				tag := i + 1
				m.BoundaryTags[tag] = tagName
				for j := 0; j < nMarkerElems; j++ {
					if fields, ok = next(); !ok {
						return nil, fmt.Errorf("unexpected end of file in marker %s", tagName)
					}
					var verts []int
					if _, verts, err = parseSU2Element(fields); err != nil {
						return nil, fmt.Errorf("line %d: %w", nline, err)
					}
					m.MarkBoundary(verts, tag, tagName)
				}
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if m == nil {
		return nil, fmt.Errorf("no NDIME header found")
	}
	for k, verts := range m.Elements {
		for _, v := range verts {
			if v < 0 || v >= len(m.Vertices) {
				return nil, fmt.Errorf("element %d references vertex %d of %d", k, v, len(m.Vertices))
			}
		}
	}
	err = m.BuildConnectivity()
	return
}

func parseSU2Element(fields []string) (etype ElementType, verts []int, err error) {
	var su2Type int
	if su2Type, err = strconv.Atoi(fields[0]); err != nil {
		return
	}
	numNodes := getNumNodesSU2(su2Type)
	if numNodes == 0 {
		err = fmt.Errorf("unsupported SU2 element type %d", su2Type)
		return
	}
	if len(fields) < numNodes+1 {
		err = fmt.Errorf("SU2 element type %d needs %d nodes, have %d fields", su2Type, numNodes, len(fields)-1)
		return
	}
	etype = su2ElementTypes[su2Type]
	verts = make([]int, numNodes)
	for j := 0; j < numNodes; j++ {
		if verts[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return
		}
	}
	return
}

var su2ElementTypes = map[int]ElementType{
	3:  Line,
	5:  Triangle,
	9:  Quad,
	10: Tet,
	12: Hex,
	13: Prism,
	14: Pyramid,
}

// getNumNodesSU2 returns the number of nodes for an SU2 element type
func getNumNodesSU2(su2Type int) int {
	switch su2Type {
	case 3:
		return 2 // Line
	case 5:
		return 3 // Triangle
	case 9:
		return 4 // Quad
	case 10:
		return 4 // Tet
	case 12:
		return 8 // Hex
	case 13:
		return 6 // Prism
	case 14:
		return 5 // Pyramid
	default:
		return 0
	}
}
