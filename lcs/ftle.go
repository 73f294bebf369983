package lcs

import (
	"math"

	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/utils"
)

/*
CalculateFTLE computes the finite time Lyapunov exponent of the flow map from
initial to final over the elapsed time T. Values live on the initial (uniform)
grid.

The deformation gradient uses central differences in the interior and first
order one sided differences on the boundary rows and columns, in both
directions of time. A cell whose stencil touches a flagged final position is
NaN, as is any cell whose Cauchy-Green tensor has no positive eigenvalue.
*/
func CalculateFTLE(initial, final *grid.Position, T float64, procLimit int) (f *grid.ScalarField) {
	var (
		lat = initial.Lattice
		pm  = utils.NewPartitionMap(utils.ParallelDegree(procLimit, lat.Ny), lat.Ny)
	)
	f = grid.NewScalarField(lat)
	fD := f.Data()
	pm.ParallelFor(func(_, jMin, jMax int) {
		for j := jMin; j < jMax; j++ {
			for i := 0; i < lat.Nx; i++ {
				fD[lat.Index(i, j)] = ftleAt(initial, final, i, j, T)
			}
		}
	})
	return
}

func ftleAt(initial, final *grid.Position, i, j int, T float64) float64 {
	var (
		lat            = initial.Lattice
		iL, iR         = stencil(i, lat.Nx)
		jL, jR         = stencil(j, lat.Ny)
		kL, kR, kD, kU = lat.Index(iL, j), lat.Index(iR, j), lat.Index(i, jL), lat.Index(i, jR)
		oob            = final.OutOfBounds
		x0, y0         = initial.XData(), initial.YData()
		x1, y1         = final.XData(), final.YData()
	)
	if oob[lat.Index(i, j)] || oob[kL] || oob[kR] || oob[kD] || oob[kU] {
		return math.NaN()
	}
	var (
		hx = x0[kR] - x0[kL]
		hy = y0[kU] - y0[kD]
		// Deformation gradient F = d(final)/d(initial)
		f11 = (x1[kR] - x1[kL]) / hx
		f12 = (x1[kU] - x1[kD]) / hy
		f21 = (y1[kR] - y1[kL]) / hx
		f22 = (y1[kU] - y1[kD]) / hy
		// C = F^T F = [[a b][b d]]
		a = f11*f11 + f21*f21
		b = f11*f12 + f21*f22
		d = f12*f12 + f22*f22
	)
	lambda := MaxEigenvalue(a, b, d)
	if !(lambda > 0) {
		return math.NaN()
	}
	return math.Log(math.Sqrt(lambda)) / math.Abs(T)
}

// stencil returns the neighbour indices used to difference index i of n
func stencil(i, n int) (iL, iR int) {
	switch i {
	case 0:
		return 0, 1
	case n - 1:
		return n - 2, n - 1
	}
	return i - 1, i + 1
}

// MaxEigenvalue is the larger eigenvalue of the symmetric matrix [[a b][b d]]
func MaxEigenvalue(a, b, d float64) float64 {
	var (
		mean = 0.5 * (a + d)
		half = 0.5 * (a - d)
	)
	return mean + math.Sqrt(half*half+b*b)
}
