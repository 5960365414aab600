package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gambitSquare = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
square
PROGRAM:                Gambit     VERSION:  2.0.0
Jan 2020
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         4         2         1         2         2         2
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.0000000000e+00   0.0000000000e+00
         2   1.0000000000e+00   0.0000000000e+00
         3   1.0000000000e+00   1.0000000000e+00
         4   0.0000000000e+00   1.0000000000e+00
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
       1  3  3        1       2       3
       2  3  3        1       3       4
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           1 ELEMENTS:          2 MATERIAL:          2 NFLAGS:          1
                           fluid
       0
       1       2
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
                 Wall       1       3       0       6
       1       3       1
       1       3       2
       2       3       2
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
              Outflow       1       1       0       6
       2       3       3
ENDOFSECTION
`

func TestGambit(t *testing.T) {
	{ // Two triangles
		m, err := ParseGambit(strings.NewReader(gambitSquare))
		require.NoError(t, err)
		require.NoError(t, m.CheckGeometry())
		assert.Equal(t, 2, m.NumCells())
		assert.Equal(t, 5, m.NumFaces())
		assert.Equal(t, map[int]string{1: "Wall", 2: "Outflow"}, m.BoundaryTags)
		tags := make(map[int]int)
		for f := 0; f < m.NumFaces(); f++ {
			tags[m.FaceTag(f)]++
		}
		assert.Equal(t, map[int]int{0: 1, 1: 3, 2: 1}, tags)
		assert.InDelta(t, 1., m.CellVolume(0)+m.CellVolume(1), 1.e-14)
		checkClosure(t, m)
	}
	{ // Through the file dispatcher
		fname := filepath.Join(t.TempDir(), "square.neu")
		require.NoError(t, os.WriteFile(fname, []byte(gambitSquare), 0o644))
		m, err := ReadMeshFile(fname)
		require.NoError(t, err)
		assert.Equal(t, 2, m.NumCells())
	}
	for _, bad := range []string{
		strings.Replace(gambitSquare, "2         2\nENDOFSECTION", "3         3\nENDOFSECTION", 1),
		strings.Replace(gambitSquare, "1  3  3        1       2       3", "1  6  4        1       2       3       4", 1),
		strings.Replace(gambitSquare, "2  3  3        1       3       4", "2  3  3        1       3       9", 1),
		strings.Replace(gambitSquare, "       2       3       3\n", "       7       3       3\n", 1),
		strings.Replace(gambitSquare, "       2       3       3\n", "       2       3       5\n", 1),
		strings.Replace(gambitSquare, "Outflow       1", "Outflow       0", 1),
		gambitSquare[:strings.Index(gambitSquare, "       2  3  3")],
		"no header here\n",
	} {
		_, err := ParseGambit(strings.NewReader(bad))
		assert.Error(t, err)
	}
}
