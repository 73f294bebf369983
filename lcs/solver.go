package lcs

import (
	"fmt"
	"strings"

	"github.com/notargets/golcs/flowmap"
	"github.com/notargets/golcs/utils"
	"github.com/notargets/golcs/velocity"
)

// Summary reports one window of a run
type Summary struct {
	InitialTime, FinalTime float64
	Min, Max, Mean, Std    float64 // Over valid cells
	Valid                  int     // Cells with a finite FTLE
	OutOfBounds            int     // Cells of the composed map that left the domain
	FileName               string
}

/*
Solver runs the full unidirectional FTLE calculation: every macro step is
integrated once into the store, the store is checked, then for each window
length the cached maps are composed and the FTLE of the window is written.
*/
type Solver struct {
	Config     *RunConfig
	Store      flowmap.Store
	Out        ResultWriter
	Integrator *Integrator
	Composer   *Composer
	State      *RunState
	Last       *Result // Longest window, kept for plotting

	StepClock, ComposeClock, FTLEClock utils.Clock
}

func NewSolver(rc *RunConfig, sampler velocity.Sampler, store flowmap.Store, out ResultWriter) (s *Solver, err error) {
	if err = rc.Validate(); err != nil {
		return
	}
	s = &Solver{
		Config:     rc,
		Store:      store,
		Out:        out,
		Integrator: NewIntegrator(rc, sampler),
		Composer:   NewComposer(rc, store),
		State:      NewRunState(rc),
	}
	return
}

func (s *Solver) Solve() (summaries []Summary, err error) {
	var (
		rc               = s.Config
		tInitial, tFinal = rc.TimeSpan()
	)
	s.State = NewRunState(rc)
	if rc.Verbose {
		fmt.Printf("*** %s FTLE CALCULATION BEGINS ***\n\n", strings.ToUpper(rc.Direction.String()))
		fmt.Printf("Using %d go routines in parallel\n", s.Integrator.Partitions.ParallelDegree)
		fmt.Printf("*** Start step flow maps calculations from t = %s ***\n\n", rc.FormatTime(tInitial))
	}
	s.StepClock.Begin()
	for i := 0; i < rc.Steps; i++ {
		if rc.Verbose {
			fmt.Printf("[%d/%d] Calculate step flow map from t = %s to t = %s\n", i+1, rc.Steps,
				rc.FormatTime(rc.StepTime(i)), rc.FormatTime(rc.StepTime(i+1)))
		}
		if err = s.Integrator.Run(rc, s.State, s.Store); err != nil {
			return
		}
	}
	s.StepClock.End()
	if rc.Verbose {
		fmt.Printf("*** Step flow maps finished (total calculation time for %d step flow maps: %.4f s) ***\n\n",
			rc.Steps, s.StepClock.Seconds())
	}
	if err = s.Composer.VerifyCache(); err != nil {
		return
	}
	summaries = make([]Summary, 0, rc.Steps)
	for i := 0; i < rc.Steps; i++ {
		var (
			sm Summary
		)
		if sm, err = s.window(i, tFinal); err != nil {
			return
		}
		summaries = append(summaries, sm)
	}
	if !rc.KeepCache {
		for _, key := range rc.StepKeys() {
			if err = s.Store.Delete(key); err != nil {
				return
			}
		}
	}
	if rc.Verbose {
		fmt.Printf("*** Fast calculation ended successfully ***\n\n")
		fmt.Printf("Calculation time for %d step flow maps: %.4f s\n", rc.Steps, s.StepClock.Seconds())
		fmt.Printf("Calculation time for %d compositions: %.4f s\n", rc.Steps, s.ComposeClock.Seconds())
		fmt.Printf("Calculation time for %d FTLE fields: %.4f s\n", rc.Steps, s.FTLEClock.Seconds())
		fmt.Printf("%s\n", utils.GetMemUsage())
	}
	return
}

// window composes and evaluates the window of i+1 macro steps ending at tFinal
func (s *Solver) window(i int, tFinal float64) (sm Summary, err error) {
	var (
		rc = s.Config
		t0 = s.Composer.WindowStart(i)
	)
	if rc.Verbose {
		fmt.Printf("[%d/%d] Fast calculation with interpolation from t = %s to t = %s\n",
			i+1, rc.Steps, rc.FormatTime(t0), rc.FormatTime(tFinal))
	}
	s.ComposeClock.Begin()
	final, err := s.Composer.Compose(i)
	s.ComposeClock.End()
	if err != nil {
		return
	}
	if rc.Verbose {
		fmt.Printf("Calculate FTLE field at t = %s\n", rc.FormatTime(t0))
	}
	s.FTLEClock.Begin()
	r := &Result{
		Field:       CalculateFTLE(s.State.Initial, final, tFinal-t0, rc.ProcLimit),
		Direction:   rc.Direction,
		InitialTime: t0,
		FinalTime:   tFinal,
	}
	s.FTLEClock.End()
	sm = Summary{
		InitialTime: t0,
		FinalTime:   tFinal,
		Valid:       r.Field.ValidCount(),
		OutOfBounds: final.CountOutOfBounds(),
	}
	sm.Min, sm.Max, sm.Mean, sm.Std = r.Field.Stats()
	if s.Out != nil {
		if sm.FileName, err = s.Out.WriteResult(r); err != nil {
			err = fmt.Errorf("writing FTLE for window %s-%s: %w", rc.FormatTime(t0), rc.FormatTime(tFinal), err)
			return
		}
	}
	s.Last = r
	if rc.Verbose {
		fmt.Printf("FTLE min = %8.5f, max = %8.5f, mean = %8.5f, valid cells = %d, out of bounds = %d\n\n",
			sm.Min, sm.Max, sm.Mean, sm.Valid, sm.OutOfBounds)
	}
	return
}
