package Hydro

import (
	"bufio"
	"fmt"
	"io"

	"github.com/notargets/fvhydro/eos"
)

const snapshotHeader = "# x y z density u v w pressure energy soundspeed temperature\n"

// SnapshotName is the per partition file name prefix_rankNNNN_stepNNNNNN.postfix
func SnapshotName(prefix, postfix string, rank, step int) string {
	return fmt.Sprintf("%s_rank%04d_step%06d.%s", prefix, rank, step, postfix)
}

// WriteSnapshot writes one row of cell centered values per cell.
// Temperature is written when the EOS provides it, zero otherwise.
func WriteSnapshot(w io.Writer, m Mesh, cells []int, U []State, e eos.EOS) (err error) {
	var (
		bw   = bufio.NewWriter(w)
		temp func(d, e float64) float64
	)
	if tp, ok := e.(interface{ Temperature(d, e float64) float64 }); ok {
		temp = tp.Temperature
	}
	if _, err = bw.WriteString(snapshotHeader); err != nil {
		return
	}
	for _, c := range cells {
		var (
			x = m.CellCentroid(c)
			s = U[c]
			T float64
		)
		if temp != nil {
			T = temp(s.Density, s.InternalEnergy)
		}
		if _, err = fmt.Fprintf(bw, "%.10e %.10e %.10e %.10e %.10e %.10e %.10e %.10e %.10e %.10e %.10e\n",
			x.X, x.Y, x.Z, s.Density, s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
			s.Pressure, s.InternalEnergy, s.SoundSpeed, T); err != nil {
			return
		}
	}
	return bw.Flush()
}
