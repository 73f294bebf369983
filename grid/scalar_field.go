package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ScalarField holds one value per lattice node, NaN marks an invalid node
type ScalarField struct {
	Lattice *Lattice
	Values  *mat.Dense
}

func NewScalarField(lat *Lattice) *ScalarField {
	return &ScalarField{
		Lattice: lat,
		Values:  mat.NewDense(lat.Ny, lat.Nx, nil),
	}
}

func (sf *ScalarField) Data() []float64        { return sf.Values.RawMatrix().Data }
func (sf *ScalarField) At(i, j int) float64     { return sf.Values.At(j, i) }
func (sf *ScalarField) Set(i, j int, v float64) { sf.Values.Set(j, i, v) }

// ValidValues returns the non NaN values in flat index order
func (sf *ScalarField) ValidValues() (vals []float64) {
	for _, v := range sf.Data() {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return
}

func (sf *ScalarField) ValidCount() int { return len(sf.ValidValues()) }

// Stats reports min, max, mean and standard deviation over the valid nodes.
// All are NaN when no node is valid.
func (sf *ScalarField) Stats() (min, max, mean, std float64) {
	vals := sf.ValidValues()
	if len(vals) == 0 {
		nan := math.NaN()
		return nan, nan, nan, nan
	}
	min, max = floats.Min(vals), floats.Max(vals)
	mean, std = stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		std = 0
	}
	return
}
