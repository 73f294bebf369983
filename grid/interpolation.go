package grid

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/notargets/golcs/utils"
)

/*
InterpolationOperator is the bilinear interpolation from the nodes of a
lattice to a set of query points, held as a sparse matrix with four entries per
query row. Applying it to the X and Y components of a nodal field evaluates that
field at every query point in one pass.

Rows for query points that are masked or outside the lattice carry zero
weights and are reported in OutOfBounds.
*/
type InterpolationOperator struct {
	Lattice     *Lattice
	W           *sparse.CSR
	OutOfBounds []bool
}

// NewInterpolationOperator assembles the operator for the query points (xq, yq).
// mask may be nil; a true entry excludes that query. Rows are assembled in
// parallel, each partition writing a disjoint row range.
func NewInterpolationOperator(lat *Lattice, xq, yq []float64, mask []bool,
	pm *utils.PartitionMap) (op *InterpolationOperator) {
	var (
		nq     = len(xq)
		indptr = make([]int, nq+1)
		ind    = make([]int, 4*nq)
		data   = make([]float64, 4*nq)
		oob    = make([]bool, nq)
	)
	if len(yq) != nq {
		panic(fmt.Errorf("query coordinate length mismatch: %d != %d", nq, len(yq)))
	}
	if pm == nil || pm.MaxIndex != nq {
		pm = utils.NewPartitionMap(1, nq)
	}
	for r := 0; r <= nq; r++ {
		indptr[r] = 4 * r
	}
	pm.ParallelFor(func(_, kMin, kMax int) {
		for r := kMin; r < kMax; r++ {
			i, j, fx, fy, ok := lat.Locate(xq[r], yq[r])
			if mask != nil && mask[r] {
				ok = false
			}
			if !ok {
				oob[r] = true
				i, j, fx, fy = 0, 0, 0, 0
			}
			cInd, w := lat.BilinearWeights(i, j, fx, fy)
			for n := 0; n < 4; n++ {
				ind[4*r+n] = cInd[n]
				if ok {
					data[4*r+n] = w[n]
				}
			}
		}
	})
	op = &InterpolationOperator{
		Lattice:     lat,
		W:           sparse.NewCSR(nq, lat.Len(), indptr, ind, data),
		OutOfBounds: oob,
	}
	return
}

// Apply evaluates the nodal field src at the query points into dst. Rows that
// are out of bounds leave dst untouched.
func (op *InterpolationOperator) Apply(dst, src []float64) {
	var (
		nq, _ = op.W.Dims()
		res   = make([]float64, nq)
	)
	op.W.MulVecTo(res, false, src)
	for r := 0; r < nq; r++ {
		if !op.OutOfBounds[r] {
			dst[r] = res[r]
		}
	}
}
