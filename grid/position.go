package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/*
Position is a fixed size Ny x Nx array of coordinate pairs over a lattice.
X and Y hold the coordinates with row j, column i. OutOfBounds flags cells
whose advected position has left the domain; once set a flag is only cleared
by SetAll, which re-seeds the uniform lattice.
*/
type Position struct {
	Lattice     *Lattice
	X, Y        *mat.Dense
	OutOfBounds []bool
	Time        float64
}

func NewPosition(lat *Lattice) (p *Position) {
	p = &Position{
		Lattice:     lat,
		X:           mat.NewDense(lat.Ny, lat.Nx, nil),
		Y:           mat.NewDense(lat.Ny, lat.Nx, nil),
		OutOfBounds: make([]bool, lat.Len()),
	}
	p.SetAll()
	return
}

// SetAll re-seeds the uniform lattice and clears the out of bounds mask
func (p *Position) SetAll() {
	var (
		lat    = p.Lattice
		xD, yD = p.XData(), p.YData()
	)
	for j := 0; j < lat.Ny; j++ {
		for i := 0; i < lat.Nx; i++ {
			k := lat.Index(i, j)
			xD[k], yD[k] = lat.X(i), lat.Y(j)
			p.OutOfBounds[k] = false
		}
	}
}

// SetFrom copies flat coordinate arrays into the grid, leaving the mask alone
func (p *Position) SetFrom(x, y []float64) {
	if len(x) != p.Lattice.Len() || len(y) != p.Lattice.Len() {
		panic(fmt.Errorf("position size mismatch: have %d,%d, need %d", len(x), len(y), p.Lattice.Len()))
	}
	copy(p.XData(), x)
	copy(p.YData(), y)
}

// XData and YData expose the contiguous backing storage in flat index order
func (p *Position) XData() []float64 { return p.X.RawMatrix().Data }
func (p *Position) YData() []float64 { return p.Y.RawMatrix().Data }

func (p *Position) At(i, j int) (x, y float64) {
	return p.X.At(j, i), p.Y.At(j, i)
}

func (p *Position) Set(i, j int, x, y float64) {
	p.X.Set(j, i, x)
	p.Y.Set(j, i, y)
}

func (p *Position) IsOutOfBounds(i, j int) bool {
	return p.OutOfBounds[p.Lattice.Index(i, j)]
}

// UpdateOutOfBounds flags every cell whose position is outside the domain or NaN.
// Flags are sticky.
func (p *Position) UpdateOutOfBounds() {
	p.UpdateOutOfBoundsRange(0, p.Lattice.Len())
}

func (p *Position) UpdateOutOfBoundsRange(kMin, kMax int) {
	var (
		xD, yD = p.XData(), p.YData()
	)
	for k := kMin; k < kMax; k++ {
		if !p.OutOfBounds[k] && !p.Lattice.Contains(xD[k], yD[k]) {
			p.OutOfBounds[k] = true
		}
	}
}

func (p *Position) CountOutOfBounds() (n int) {
	for _, oob := range p.OutOfBounds {
		if oob {
			n++
		}
	}
	return
}

func (p *Position) Copy() (c *Position) {
	c = &Position{
		Lattice:     p.Lattice,
		X:           mat.DenseCopyOf(p.X),
		Y:           mat.DenseCopyOf(p.Y),
		OutOfBounds: make([]bool, len(p.OutOfBounds)),
		Time:        p.Time,
	}
	copy(c.OutOfBounds, p.OutOfBounds)
	return
}

func (p *Position) CopyFrom(src *Position) {
	if !p.Lattice.Equal(src.Lattice) {
		panic("unable to copy between positions on different lattices")
	}
	p.X.Copy(src.X)
	p.Y.Copy(src.Y)
	copy(p.OutOfBounds, src.OutOfBounds)
	p.Time = src.Time
}
