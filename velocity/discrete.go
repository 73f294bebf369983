package velocity

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/utils"
)

// Snapshot is one stored velocity sample over the data lattice
type Snapshot struct {
	Time float64
	U, V []float64
}

/*
Discrete reconstructs a velocity field from snapshots stored every DeltaT
starting at TMin. Space is interpolated bilinearly on each bracketing snapshot,
positions outside the data bounds are clamped to the boundary. Time follows
Policy, and times outside the stored range use the end snapshots.
*/
type Discrete struct {
	Lattice   *grid.Lattice
	TMin      float64
	DeltaT    float64
	Policy    TemporalPolicy
	Snapshots []*Snapshot
}

func NewDiscrete(lat *grid.Lattice, tMin, deltaT float64, policy TemporalPolicy,
	snapshots []*Snapshot) (d *Discrete, err error) {
	if len(snapshots) == 0 {
		err = fmt.Errorf("discrete velocity field needs at least one snapshot")
		return
	}
	if deltaT <= 0 {
		err = fmt.Errorf("snapshot spacing must be positive, have %v", deltaT)
		return
	}
	for n, s := range snapshots {
		if len(s.U) != lat.Len() || len(s.V) != lat.Len() {
			err = fmt.Errorf("snapshot %d at t = %v has %d values, need %d",
				n, s.Time, len(s.U), lat.Len())
			return
		}
		if utils.IsNan(s.U) || utils.IsNan(s.V) {
			err = fmt.Errorf("snapshot %d at t = %v contains NaN velocities", n, s.Time)
			return
		}
	}
	d = &Discrete{
		Lattice:   lat,
		TMin:      tMin,
		DeltaT:    deltaT,
		Policy:    policy,
		Snapshots: snapshots,
	}
	return
}

func (d *Discrete) TMax() float64 {
	return d.TMin + float64(len(d.Snapshots)-1)*d.DeltaT
}

func (d *Discrete) Velocity(x, y, t float64) (u, v float64) {
	var (
		lat        = d.Lattice
		xc, yc     = lat.Clamp(x, y)
		n0, n1, ft = d.bracket(t)
		s0, s1     = d.Snapshots[n0], d.Snapshots[n1]
	)
	u0, _ := lat.Interpolate(s0.U, xc, yc)
	v0, _ := lat.Interpolate(s0.V, xc, yc)
	if ft == 0 {
		return u0, v0
	}
	u1, _ := lat.Interpolate(s1.U, xc, yc)
	v1, _ := lat.Interpolate(s1.V, xc, yc)
	u = (1-ft)*u0 + ft*u1
	v = (1-ft)*v0 + ft*v1
	return
}

// bracket returns the two snapshots around t and the weight of the second one
func (d *Discrete) bracket(t float64) (n0, n1 int, ft float64) {
	var (
		last = len(d.Snapshots) - 1
		s    = (t - d.TMin) / d.DeltaT
	)
	switch {
	case math.IsNaN(s) || s <= 0:
		return 0, 0, 0
	case s >= float64(last):
		return last, last, 0
	}
	if d.Policy == Nearest {
		n0 = int(math.Round(s))
		return n0, n0, 0
	}
	n0 = int(math.Floor(s))
	n1 = n0 + 1
	ft = s - float64(n0)
	return
}

// SnapshotFileName is {prefix}{time}.txt with time at the derived precision
func SnapshotFileName(dir, prefix string, t float64, precision int) string {
	return filepath.Join(dir, prefix+utils.FormatTime(t, precision)+".txt")
}

// SnapshotTimes lists the sample times from tMin through tMax inclusive
func SnapshotTimes(tMin, tMax, deltaT float64) (times []float64) {
	n := int(math.Floor((tMax-tMin)/deltaT+1e-9)) + 1
	times = make([]float64, n)
	for k := range times {
		times[k] = tMin + float64(k)*deltaT
	}
	return
}

/*
LoadDiscrete reads every snapshot between tMin and tMax from dir and builds the
discrete sampler. Files are read concurrently, at most procLimit at a time.
A missing snapshot fails the load with ErrSnapshotMissing naming the path.
*/
func LoadDiscrete(ctx context.Context, dir, prefix string, lat *grid.Lattice,
	tMin, tMax, deltaT float64, precision int, policy TemporalPolicy,
	procLimit int) (d *Discrete, err error) {
	var (
		times     = SnapshotTimes(tMin, tMax, deltaT)
		snapshots = make([]*Snapshot, len(times))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelDegree(procLimit, len(times)))
	for k, tm := range times {
		k, tm := k, tm
		g.Go(func() (err error) {
			if err = ctx.Err(); err != nil {
				return
			}
			snapshots[k], err = ReadSnapshot(SnapshotFileName(dir, prefix, tm, precision), lat)
			if err == nil {
				snapshots[k].Time = tm
			}
			return
		})
	}
	if err = g.Wait(); err != nil {
		return
	}
	return NewDiscrete(lat, tMin, deltaT, policy, snapshots)
}

/*
WriteSnapshots samples model on the data lattice at every snapshot time and
writes one text file per time, returning the file names in time order.
*/
func WriteSnapshots(ctx context.Context, dir, prefix string, lat *grid.Lattice, model Model,
	tMin, tMax, deltaT float64, precision int, procLimit int) (files []string, err error) {
	var (
		times = SnapshotTimes(tMin, tMax, deltaT)
	)
	files = make([]string, len(times))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelDegree(procLimit, len(times)))
	for k, tm := range times {
		k, tm := k, tm
		files[k] = SnapshotFileName(dir, prefix, tm, precision)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return WriteSnapshot(files[k], lat, SampleModel(lat, model, tm), precision)
		})
	}
	err = g.Wait()
	return
}

// SampleModel evaluates an analytic model on every lattice node at time t
func SampleModel(lat *grid.Lattice, model Model, t float64) (s *Snapshot) {
	s = &Snapshot{
		Time: t,
		U:    make([]float64, lat.Len()),
		V:    make([]float64, lat.Len()),
	}
	for k := 0; k < lat.Len(); k++ {
		i, j := lat.IJ(k)
		s.U[k], s.V[k] = model.GetVelocity(t, lat.X(i), lat.Y(j))
	}
	return
}
