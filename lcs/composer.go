package lcs

import (
	"fmt"

	"github.com/notargets/golcs/flowmap"
	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/utils"
)

/*
Composer builds long duration flow maps from the cached single step maps. A
moving grid starts on the uniform lattice and is carried forward one cached
step at a time by interpolating that step's map at the moving positions, so
each macro step is integrated once no matter how many windows use it.
*/
type Composer struct {
	Config     *RunConfig
	Store      flowmap.Store
	Partitions *utils.PartitionMap // All lattice nodes
	stepMap    *grid.Position
}

func NewComposer(rc *RunConfig, store flowmap.Store) (c *Composer) {
	var (
		n = rc.Lattice.Len()
	)
	c = &Composer{
		Config:     rc,
		Store:      store,
		Partitions: utils.NewPartitionMap(utils.ParallelDegree(rc.ProcLimit, n), n),
		stepMap:    grid.NewPosition(rc.Lattice),
	}
	return
}

// VerifyCache checks that every step map of the run is present and complete
func (c *Composer) VerifyCache() (err error) {
	if err = flowmap.Verify(c.Store, c.Config.StepKeys(), c.Config.Lattice); err != nil {
		err = fmt.Errorf("step flow map cache is incomplete: %w", err)
	}
	return
}

// WindowStart is the initial time of the window of i+1 macro steps ending at the final time
func (c *Composer) WindowStart(i int) float64 {
	return c.Config.StepTime(c.Config.Steps - (i + 1))
}

/*
Compose returns the flow map over the last i+1 macro steps of the run, from
WindowStart(i) to the final time. The returned grid holds the end positions of
particles seeded on the uniform lattice; cells that left the domain are
flagged and keep the last position they had inside.
*/
func (c *Composer) Compose(i int) (moving *grid.Position, err error) {
	var (
		rc    = c.Config
		lat   = rc.Lattice
		first = rc.Steps - (i + 1)
	)
	if i < 0 || i >= rc.Steps {
		return nil, fmt.Errorf("window index %d is outside [0, %d)", i, rc.Steps)
	}
	moving = grid.NewPosition(lat)
	moving.Time = rc.StepTime(first)
	for ii := 0; ii <= i; ii++ {
		step := first + ii + 1
		if err = c.Store.Read(rc.StepKey(step), c.stepMap); err != nil {
			return nil, fmt.Errorf("composing window %d: %w", i, err)
		}
		c.advance(moving)
		moving.Time = rc.StepTime(step)
	}
	return
}

// advance carries the moving grid through the step map currently loaded
func (c *Composer) advance(moving *grid.Position) {
	var (
		lat    = moving.Lattice
		xD, yD = moving.XData(), moving.YData()
		op     = grid.NewInterpolationOperator(lat, xD, yD, moving.OutOfBounds, c.Partitions)
	)
	op.Apply(xD, c.stepMap.XData())
	op.Apply(yD, c.stepMap.YData())
	for k, oob := range op.OutOfBounds {
		if oob {
			moving.OutOfBounds[k] = true
		}
	}
	moving.UpdateOutOfBounds()
}
