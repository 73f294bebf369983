package lcs

import (
	"fmt"

	"github.com/notargets/golcs/flowmap"
	"github.com/notargets/golcs/utils"
	"github.com/notargets/golcs/velocity"
)

// Integrator advances particles through a sampled velocity field with classic RK4
type Integrator struct {
	Sampler    velocity.Sampler
	Substeps   int
	Partitions *utils.PartitionMap // Rows of the computation lattice
}

func NewIntegrator(rc *RunConfig, sampler velocity.Sampler) (it *Integrator) {
	var (
		ny = rc.Lattice.Ny
	)
	it = &Integrator{
		Sampler:    sampler,
		Substeps:   rc.Substeps,
		Partitions: utils.NewPartitionMap(utils.ParallelDegree(rc.ProcLimit, ny), ny),
	}
	if it.Substeps < 1 {
		it.Substeps = 1
	}
	return
}

// Advect moves the point (x,y) from time t through one macro step of signed length dt
func (it *Integrator) Advect(x, y, t, dt float64) (xn, yn float64) {
	var (
		h = dt / float64(it.Substeps)
	)
	xn, yn = x, y
	for n := 0; n < it.Substeps; n++ {
		xn, yn = it.rk4(xn, yn, t+float64(n)*h, h)
	}
	return
}

func (it *Integrator) rk4(x, y, t, h float64) (xn, yn float64) {
	var (
		s      = it.Sampler
		hh     = 0.5 * h
		u1, v1 = s.Velocity(x, y, t)
		u2, v2 = s.Velocity(x+hh*u1, y+hh*v1, t+hh)
		u3, v3 = s.Velocity(x+hh*u2, y+hh*v2, t+hh)
		u4, v4 = s.Velocity(x+h*u3, y+h*v3, t+h)
		h6     = h / 6.
	)
	xn = x + h6*(u1+2*u2+2*u3+u4)
	yn = y + h6*(v1+2*v2+2*v3+v4)
	return
}

/*
Run integrates one macro step. The current grid is first reset to the uniform
lattice, so the result is a single step flow map that does not depend on any
earlier step. The step counter and time advance, and the map is written to the
store under the key of the time the step ends at.
*/
func (it *Integrator) Run(rc *RunConfig, rs *RunState, store flowmap.Store) (err error) {
	var (
		cur    = rs.Current
		lat    = cur.Lattice
		xD, yD = cur.XData(), cur.YData()
		t0     = rs.Time
		dt     = rc.SignedDeltaT()
	)
	cur.SetAll()
	it.Partitions.ParallelFor(func(_, jMin, jMax int) {
		for j := jMin; j < jMax; j++ {
			for i := 0; i < lat.Nx; i++ {
				k := lat.Index(i, j)
				xD[k], yD[k] = it.Advect(xD[k], yD[k], t0, dt)
			}
		}
		cur.UpdateOutOfBoundsRange(lat.Index(0, jMin), lat.Index(0, jMax))
	})
	rs.Step++
	rs.Time = rc.StepTime(rs.Step)
	cur.Time = rs.Time
	if err = store.Write(rc.StepKey(rs.Step), cur); err != nil {
		err = fmt.Errorf("step %d: %w", rs.Step, err)
	}
	return
}
