package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrInvalidLattice = errors.New("invalid lattice")

type Bounds struct {
	XMin, XMax, YMin, YMax float64
}

func (b Bounds) Validate() error {
	switch {
	case !(b.XMin < b.XMax):
		return fmt.Errorf("%w: x_min (%v) must be less than x_max (%v)", ErrInvalidLattice, b.XMin, b.XMax)
	case !(b.YMin < b.YMax):
		return fmt.Errorf("%w: y_min (%v) must be less than y_max (%v)", ErrInvalidLattice, b.YMin, b.YMax)
	}
	return nil
}

// Contains reports whether (x,y) lies in the closed rectangle. NaN is never contained.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

func (b Bounds) Clamp(x, y float64) (xc, yc float64) {
	xc = math.Min(math.Max(x, b.XMin), b.XMax)
	yc = math.Min(math.Max(y, b.YMin), b.YMax)
	return
}

/*
Lattice is the uniform grid of Nx by Ny nodes spanning Bounds, nodes on the
boundary included. Node (i,j) is stored at flat index j*Nx+i, i.e. rows are y.
*/
type Lattice struct {
	Bounds
	Nx, Ny int
	xs, ys []float64
}

func NewLattice(b Bounds, Nx, Ny int) (lat *Lattice, err error) {
	if err = b.Validate(); err != nil {
		return
	}
	if Nx < 2 || Ny < 2 {
		err = fmt.Errorf("%w: need at least 2x2 nodes, have %dx%d", ErrInvalidLattice, Nx, Ny)
		return
	}
	lat = &Lattice{
		Bounds: b,
		Nx:     Nx,
		Ny:     Ny,
		xs:     floats.Span(make([]float64, Nx), b.XMin, b.XMax),
		ys:     floats.Span(make([]float64, Ny), b.YMin, b.YMax),
	}
	return
}

func (lat *Lattice) Dx() float64 { return (lat.XMax - lat.XMin) / float64(lat.Nx-1) }
func (lat *Lattice) Dy() float64 { return (lat.YMax - lat.YMin) / float64(lat.Ny-1) }
func (lat *Lattice) X(i int) float64 { return lat.xs[i] }
func (lat *Lattice) Y(j int) float64 { return lat.ys[j] }
func (lat *Lattice) Len() int         { return lat.Nx * lat.Ny }
func (lat *Lattice) Index(i, j int) int {
	return i + j*lat.Nx
}
func (lat *Lattice) IJ(k int) (i, j int) {
	j = k / lat.Nx
	i = k - j*lat.Nx
	return
}

func (lat *Lattice) Equal(other *Lattice) bool {
	return lat.Nx == other.Nx && lat.Ny == other.Ny && lat.Bounds == other.Bounds
}

/*
Locate finds the cell containing (x,y): the lower left node (i,j) and the
fractional offsets (fx,fy) in [0,1] within the cell. Points on the upper
boundary belong to the last cell with a fraction of 1. Points outside the
bounds return ok = false.
*/
func (lat *Lattice) Locate(x, y float64) (i, j int, fx, fy float64, ok bool) {
	if !lat.Contains(x, y) {
		return
	}
	i, fx = locate1D(x, lat.XMin, lat.Dx(), lat.Nx)
	j, fy = locate1D(y, lat.YMin, lat.Dy(), lat.Ny)
	ok = true
	return
}

func locate1D(x, xMin, dx float64, n int) (i int, f float64) {
	f = (x - xMin) / dx
	i = int(math.Floor(f))
	if i > n-2 {
		i = n - 2
	}
	if i < 0 {
		i = 0
	}
	f -= float64(i)
	f = math.Min(math.Max(f, 0), 1)
	return
}

// BilinearWeights returns the flat indices of the four cell corners and their weights
func (lat *Lattice) BilinearWeights(i, j int, fx, fy float64) (ind [4]int, w [4]float64) {
	k00 := lat.Index(i, j)
	ind = [4]int{k00, k00 + 1, k00 + lat.Nx, k00 + lat.Nx + 1}
	w = [4]float64{(1 - fx) * (1 - fy), fx * (1 - fy), (1 - fx) * fy, fx * fy}
	return
}

// Interpolate evaluates the bilinear interpolant of nodal values at (x,y)
func (lat *Lattice) Interpolate(values []float64, x, y float64) (v float64, ok bool) {
	var (
		i, j   int
		fx, fy float64
	)
	if i, j, fx, fy, ok = lat.Locate(x, y); !ok {
		return
	}
	ind, w := lat.BilinearWeights(i, j, fx, fy)
	for n := 0; n < 4; n++ {
		v += w[n] * values[ind[n]]
	}
	return
}
