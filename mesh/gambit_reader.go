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

// ReadGambit reads a 2D Gambit neutral (.neu) file of triangles and quads
func ReadGambit(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	return ParseGambit(file)
}

/*
ParseGambit reads the NODAL COORDINATES, ELEMENTS/CELLS and element side
BOUNDARY CONDITIONS sections of a neutral file. Each boundary set becomes a
boundary tag numbered from 1 in file order, named by the set name. Side k
of an element joins its vertices k and k+1 (1 based, wrapping).

	     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
	         4         2         1         1         2         2
	 BOUNDARY CONDITIONS 2.0.0
	                 Wall       1       3       0       6
	       1       3       1
*/
func ParseGambit(r io.Reader) (m *Mesh, err error) {
	var (
		scanner    = bufio.NewScanner(r)
		nline      int
		Nv, K, Nsd int
	)
	getLine := func() (line string, err error) {
		if !scanner.Scan() {
			if err = scanner.Err(); err == nil {
				err = fmt.Errorf("early end of file after line %d", nline)
			}
			return
		}
		nline++
		return scanner.Text(), nil
	}
	for scanner.Scan() {
		nline++
		line := scanner.Text()
		switch {
		case strings.Contains(line, "NUMNP"):
			if line, err = getLine(); err != nil {
				return nil, err
			}
			var Nmats, Nbcs, dum int
			if _, err = fmt.Sscanf(line, "%d %d %d %d %d %d", &Nv, &K, &Nmats, &Nbcs, &Nsd, &dum); err != nil {
				return nil, fmt.Errorf("line %d: bad header %q: %w", nline, line, err)
			}
			if Nsd != 2 {
				return nil, fmt.Errorf("only 2D neutral files are supported, have %d space dimensions", Nsd)
			}
			m = NewMesh(2)
			m.Vertices = make([]r3.Vec, Nv)

		case strings.Contains(line, "NODAL COORDINATES"):
			if m == nil {
				return nil, fmt.Errorf("line %d: coordinates before the NUMNP header", nline)
			}
			for i := 0; i < Nv; i++ {
				if line, err = getLine(); err != nil {
					return nil, err
				}
				var (
					ind  int
					x, y float64
				)
				if _, err = fmt.Sscanf(line, "%d %f %f", &ind, &x, &y); err != nil {
					return nil, fmt.Errorf("line %d: bad vertex %q: %w", nline, line, err)
				}
				if ind < 1 || ind > Nv {
					return nil, fmt.Errorf("line %d: vertex index %d out of range", nline, ind)
				}
				m.Vertices[ind-1] = r3.Vec{X: x, Y: y}
			}

		case strings.Contains(line, "ELEMENTS/CELLS"):
			if m == nil {
				return nil, fmt.Errorf("line %d: elements before the NUMNP header", nline)
			}
			for i := 0; i < K; i++ {
				if line, err = getLine(); err != nil {
					return nil, err
				}
				var (
					etype ElementType
					verts []int
				)
				if etype, verts, err = parseGambitElement(strings.Fields(line), i+1, Nv); err != nil {
					return nil, fmt.Errorf("line %d: %w", nline, err)
				}
				m.AddElement(etype, verts, 0)
			}

		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			if m == nil || len(m.Elements) != K {
				return nil, fmt.Errorf("line %d: boundary conditions before the elements", nline)
			}
			if line, err = getLine(); err != nil {
				return nil, err
			}
			var (
				name          string
				itype, nfaces int
			)
			if _, err = fmt.Sscanf(line, "%s %d %d", &name, &itype, &nfaces); err != nil {
				return nil, fmt.Errorf("line %d: bad boundary set header %q: %w", nline, line, err)
			}
			if itype != 1 {
				return nil, fmt.Errorf("line %d: boundary set %s is not element side based", nline, name)
			}
			tag := len(m.BoundaryTags) + 1
			m.BoundaryTags[tag] = name
			for j := 0; j < nfaces; j++ {
				if line, err = getLine(); err != nil {
					return nil, err
				}
				var kp1, typ, side int
				if _, err = fmt.Sscanf(line, "%d %d %d", &kp1, &typ, &side); err != nil {
					return nil, fmt.Errorf("line %d: bad boundary face %q: %w", nline, line, err)
				}
				if kp1 < 1 || kp1 > K {
					return nil, fmt.Errorf("line %d: boundary face on element %d of %d", nline, kp1, K)
				}
				verts := m.Elements[kp1-1]
				if side < 1 || side > len(verts) {
					return nil, fmt.Errorf("line %d: element %d has no side %d", nline, kp1, side)
				}
				m.MarkBoundary([]int{verts[side-1], verts[side%len(verts)]}, tag, name)
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if m == nil {
		return nil, fmt.Errorf("no NUMNP header found")
	}
	if len(m.Elements) != K {
		return nil, fmt.Errorf("read %d of %d elements", len(m.Elements), K)
	}
	err = m.BuildConnectivity()
	return
}

// parseGambitElement reads "index type nodes v1 v2 ..." with 1 based
// vertex numbers
func parseGambitElement(fields []string, want, Nv int) (etype ElementType, verts []int, err error) {
	nums := make([]int, len(fields))
	for i, f := range fields {
		if nums[i], err = strconv.Atoi(f); err != nil {
			return
		}
	}
	if len(nums) < 3 || nums[0] != want {
		err = fmt.Errorf("expected element %d, have %v", want, fields)
		return
	}
	switch {
	case nums[1] == 3 && nums[2] == 3:
		etype = Triangle
	case nums[1] == 2 && nums[2] == 4:
		etype = Quad
	default:
		err = fmt.Errorf("unsupported element type %d with %d nodes", nums[1], nums[2])
		return
	}
	if len(nums) != 3+nums[2] {
		err = fmt.Errorf("element %d needs %d nodes, have %d", want, nums[2], len(nums)-3)
		return
	}
	verts = make([]int, nums[2])
	for i := range verts {
		if nums[3+i] < 1 || nums[3+i] > Nv {
			err = fmt.Errorf("element %d references vertex %d of %d", want, nums[3+i], Nv)
			return
		}
		verts[i] = nums[3+i] - 1
	}
	return
}
