package lcs

import (
	"fmt"

	"github.com/notargets/golcs/flowmap"
	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/types"
	"github.com/notargets/golcs/utils"
)

// RunConfig is fixed for the life of a run
type RunConfig struct {
	Lattice    *grid.Lattice // Computation grid
	TMin, TMax float64
	Steps      int    // Number of macro steps between TMin and TMax
	Precision  int    // Decimal digits used for time keys and file names
	Prefix     string // Cache and result file prefix
	Direction  types.Direction
	Substeps   int  // RK4 sub steps per macro step
	ProcLimit  int  // Go routines to use, 0 for one per CPU
	Verbose    bool // Print progress and timings
	KeepCache  bool // Leave the step flow maps in the store after a run
}

func (rc *RunConfig) Validate() (err error) {
	switch {
	case rc.Lattice == nil:
		err = fmt.Errorf("run has no computation lattice")
	case !(rc.TMin < rc.TMax):
		err = fmt.Errorf("t_min (%v) must be less than t_max (%v)", rc.TMin, rc.TMax)
	case rc.Steps < 1:
		err = fmt.Errorf("steps must be at least 1, have %d", rc.Steps)
	case rc.Substeps < 1:
		err = fmt.Errorf("substeps must be at least 1, have %d", rc.Substeps)
	case rc.Precision < 0 || rc.Precision > utils.MaxTimePrecision:
		err = fmt.Errorf("time precision must be within [0, %d], have %d", utils.MaxTimePrecision, rc.Precision)
	case len(rc.Prefix) == 0:
		err = fmt.Errorf("file prefix is empty")
	}
	if err != nil {
		return
	}
	// Every step boundary needs its own key at the chosen precision
	for step := 1; step <= rc.Steps; step++ {
		if rc.StepKey(step) == rc.StepKey(step-1) {
			return fmt.Errorf("calc_delta_t = %v is finer than the key precision of %d digits",
				rc.CalcDeltaT(), rc.Precision)
		}
	}
	return
}

func (rc *RunConfig) CalcDeltaT() float64 {
	return (rc.TMax - rc.TMin) / float64(rc.Steps)
}

// SignedDeltaT is CalcDeltaT carrying the sign of the direction
func (rc *RunConfig) SignedDeltaT() float64 {
	return rc.Direction.Sign() * rc.CalcDeltaT()
}

func (rc *RunConfig) TimeSpan() (tInitial, tFinal float64) {
	return rc.Direction.TimeSpan(rc.TMin, rc.TMax)
}

// StepTime is the time after step macro steps from the initial time
func (rc *RunConfig) StepTime(step int) float64 {
	tInitial, _ := rc.TimeSpan()
	return tInitial + float64(step)*rc.SignedDeltaT()
}

// StepKey addresses the flow map of macro step step (1 based), keyed by the time it ends at
func (rc *RunConfig) StepKey(step int) flowmap.Key {
	return flowmap.NewKey(rc.Prefix, rc.Direction, rc.StepTime(step), rc.Precision)
}

// StepKeys lists the keys of every macro step in production order
func (rc *RunConfig) StepKeys() (keys []flowmap.Key) {
	keys = make([]flowmap.Key, rc.Steps)
	for step := 1; step <= rc.Steps; step++ {
		keys[step-1] = rc.StepKey(step)
	}
	return
}

func (rc *RunConfig) FormatTime(t float64) string {
	return utils.FormatTime(t, rc.Precision)
}

/*
RunState is the mutable part of a run. Current holds the grid after Step macro
steps; Initial is the uniform lattice every step starts from.
*/
type RunState struct {
	Initial, Current *grid.Position
	Step             int
	Time             float64
	Direction        types.Direction
}

func NewRunState(rc *RunConfig) (rs *RunState) {
	tInitial, _ := rc.TimeSpan()
	rs = &RunState{
		Initial:   grid.NewPosition(rc.Lattice),
		Current:   grid.NewPosition(rc.Lattice),
		Time:      tInitial,
		Direction: rc.Direction,
	}
	rs.Initial.Time = tInitial
	rs.Current.Time = tInitial
	return
}
