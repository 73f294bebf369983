package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/golcs/utils"
)

func newTestLattice(t *testing.T, nx, ny int) *Lattice {
	lat, err := NewLattice(Bounds{0, 2, 0, 1}, nx, ny)
	require.NoError(t, err)
	return lat
}

func TestLattice(t *testing.T) {
	{ // Construction checks
		_, err := NewLattice(Bounds{1, 0, 0, 1}, 3, 3)
		assert.True(t, errors.Is(err, ErrInvalidLattice))
		_, err = NewLattice(Bounds{0, 1, 0, 1}, 1, 3)
		assert.True(t, errors.Is(err, ErrInvalidLattice))
	}
	lat := newTestLattice(t, 5, 3)
	{ // Coordinates, end points are exact
		assert.InDelta(t, 0.5, lat.Dx(), 1e-15)
		assert.InDelta(t, 0.5, lat.Dy(), 1e-15)
		assert.Equal(t, 0., lat.X(0))
		assert.Equal(t, 2., lat.X(4))
		assert.Equal(t, 1., lat.Y(2))
		assert.Equal(t, 7, lat.Index(2, 1))
		i, j := lat.IJ(7)
		assert.Equal(t, [2]int{2, 1}, [2]int{i, j})
	}
	{ // Locate
		i, j, fx, fy, ok := lat.Locate(0.75, 0.25)
		assert.True(t, ok)
		assert.Equal(t, [2]int{1, 0}, [2]int{i, j})
		assert.InDelta(t, 0.5, fx, 1e-14)
		assert.InDelta(t, 0.5, fy, 1e-14)
		// Upper boundary belongs to the last cell
		i, j, fx, fy, ok = lat.Locate(2, 1)
		assert.True(t, ok)
		assert.Equal(t, [2]int{3, 1}, [2]int{i, j})
		assert.Equal(t, [2]float64{1, 1}, [2]float64{fx, fy})
		_, _, _, _, ok = lat.Locate(2.0001, 0.5)
		assert.False(t, ok)
		_, _, _, _, ok = lat.Locate(math.NaN(), 0.5)
		assert.False(t, ok)
	}
	{ // Bilinear interpolation is exact for bilinear functions
		f := func(x, y float64) float64 { return 1 + 2*x - 3*y + 0.5*x*y }
		vals := make([]float64, lat.Len())
		for j := 0; j < lat.Ny; j++ {
			for i := 0; i < lat.Nx; i++ {
				vals[lat.Index(i, j)] = f(lat.X(i), lat.Y(j))
			}
		}
		for _, xy := range [][2]float64{{0.1, 0.9}, {1.3, 0.4}, {2, 1}, {0, 0}} {
			v, ok := lat.Interpolate(vals, xy[0], xy[1])
			assert.True(t, ok)
			assert.InDelta(t, f(xy[0], xy[1]), v, 1e-13)
		}
		_, ok := lat.Interpolate(vals, -0.1, 0.5)
		assert.False(t, ok)
	}
}

func TestPosition(t *testing.T) {
	lat := newTestLattice(t, 5, 3)
	p := NewPosition(lat)
	{ // Seeded on the uniform lattice
		x, y := p.At(4, 2)
		assert.Equal(t, [2]float64{2, 1}, [2]float64{x, y})
		assert.Equal(t, 0, p.CountOutOfBounds())
	}
	{ // Out of bounds flags are sticky
		p.Set(1, 1, 2.5, 0.5)
		p.UpdateOutOfBounds()
		assert.True(t, p.IsOutOfBounds(1, 1))
		p.Set(1, 1, 1, 0.5)
		p.UpdateOutOfBounds()
		assert.True(t, p.IsOutOfBounds(1, 1))
		p.Set(2, 2, math.NaN(), 0.5)
		p.UpdateOutOfBounds()
		assert.True(t, p.IsOutOfBounds(2, 2))
		assert.Equal(t, 2, p.CountOutOfBounds())
	}
	{ // Copies are deep
		p.Time = 0.5
		c := p.Copy()
		c.Set(0, 0, 9, 9)
		c.OutOfBounds[0] = true
		x, _ := p.At(0, 0)
		assert.Equal(t, 0., x)
		assert.False(t, p.OutOfBounds[0])
		assert.Equal(t, 0.5, c.Time)
		p.CopyFrom(c)
		x, _ = p.At(0, 0)
		assert.Equal(t, 9., x)
	}
	{ // SetAll re-seeds and clears the mask
		p.SetAll()
		assert.Equal(t, 0, p.CountOutOfBounds())
		x, y := p.At(1, 1)
		assert.Equal(t, [2]float64{0.5, 0.5}, [2]float64{x, y})
	}
}

func TestInterpolationOperator(t *testing.T) {
	lat := newTestLattice(t, 21, 11)
	var (
		fx = func(x, y float64) float64 { return x + 0.1*y }
		fy = func(x, y float64) float64 { return y - 0.2*x + 0.05*x*y }
		vx = make([]float64, lat.Len())
		vy = make([]float64, lat.Len())
	)
	for k := 0; k < lat.Len(); k++ {
		i, j := lat.IJ(k)
		vx[k], vy[k] = fx(lat.X(i), lat.Y(j)), fy(lat.X(i), lat.Y(j))
	}
	var (
		xq   = []float64{0.33, 1.91, 2.5, 1.0, 0.0}
		yq   = []float64{0.71, 0.02, 0.5, 0.5, 1.0}
		mask = []bool{false, false, false, true, false}
	)
	for _, np := range []int{1, 3} {
		op := NewInterpolationOperator(lat, xq, yq, mask, utils.NewPartitionMap(np, len(xq)))
		assert.Equal(t, []bool{false, false, true, true, false}, op.OutOfBounds)
		dx := []float64{-1, -1, -1, -1, -1}
		dy := []float64{-1, -1, -1, -1, -1}
		op.Apply(dx, vx)
		op.Apply(dy, vy)
		for r := range xq {
			if op.OutOfBounds[r] {
				// untouched
				assert.Equal(t, -1., dx[r])
				assert.Equal(t, -1., dy[r])
				continue
			}
			assert.InDelta(t, fx(xq[r], yq[r]), dx[r], 1e-12)
			assert.InDelta(t, fy(xq[r], yq[r]), dy[r], 1e-12)
		}
	}
}

func TestScalarField(t *testing.T) {
	lat := newTestLattice(t, 3, 2)
	sf := NewScalarField(lat)
	for k, v := range []float64{1, 2, math.NaN(), 4, 5, math.NaN()} {
		sf.Data()[k] = v
	}
	assert.Equal(t, 4, sf.ValidCount())
	min, max, mean, _ := sf.Stats()
	assert.Equal(t, 1., min)
	assert.Equal(t, 5., max)
	assert.Equal(t, 3., mean)
	assert.True(t, math.IsNaN(sf.At(2, 0)))
	sf.Set(2, 0, 7)
	assert.Equal(t, 7., sf.Data()[2])

	empty := NewScalarField(lat)
	for k := range empty.Data() {
		empty.Data()[k] = math.NaN()
	}
	min, _, _, _ = empty.Stats()
	assert.True(t, math.IsNaN(min))
}
