package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/golcs/flowmap"
	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/lcs"
	"github.com/notargets/golcs/types"
	"github.com/notargets/golcs/velocity"
	"github.com/notargets/golcs/velocity/double_gyre"
)

var (
	nList     = "21,41,81"
	steps     = 4
	tMax      = 2.
	substeps  = 1
	procLimit = 0
	csvFile   string
)

func main() {
	nListPtr := flag.String("n", nList, "comma separated grid sizes in x, ny = (nx+1)/2")
	stepsPtr := flag.Int("steps", steps, "number of macro steps composed")
	tMaxPtr := flag.Float64("tMax", tMax, "final time of the double gyre run starting at t = 0")
	substepsPtr := flag.Int("substeps", substeps, "RK4 sub steps per macro step")
	procLimitPtr := flag.Int("procLimit", procLimit, "maximum number of parallel go routines, 0 = number of CPUs")
	csvFilePtr := flag.String("csvFile", "", "optional file to write the study into")
	flag.Parse()
	nList, steps, tMax = *nListPtr, *stepsPtr, *tMaxPtr
	substeps, procLimit, csvFile = *substepsPtr, *procLimitPtr, *csvFilePtr
	ns, err := parseNList(nList)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		flag.Usage()
		os.Exit(1)
	}
	es := NewErrorStudy(steps, tMax)
	for _, n := range ns {
		var maxErr, rmsErr float64
		if maxErr, rmsErr, err = ComposeError(n, steps, substeps, tMax, procLimit); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		es.Add(n, maxErr, rmsErr)
	}
	es.Print()
	if len(csvFile) != 0 {
		if err = es.WriteCSV(csvFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
}

func parseNList(list string) (ns []int, err error) {
	for _, field := range strings.Split(list, ",") {
		var n int
		if n, err = strconv.Atoi(strings.TrimSpace(field)); err != nil {
			return nil, fmt.Errorf("grid size %q: %w", field, err)
		}
		if n < 3 {
			return nil, fmt.Errorf("grid size must be at least 3, have %d", n)
		}
		ns = append(ns, n)
	}
	return
}

type ErrorStudy struct {
	steps          int
	tMax           float64
	numPTS         []int
	maxErr, rmsErr []float64
}

func NewErrorStudy(steps int, tMax float64) *ErrorStudy {
	return &ErrorStudy{
		steps: steps,
		tMax:  tMax,
	}
}

func (es *ErrorStudy) Add(numPTS int, maxErr, rmsErr float64) {
	es.numPTS = append(es.numPTS, numPTS)
	es.maxErr = append(es.maxErr, maxErr)
	es.rmsErr = append(es.rmsErr, rmsErr)
}

// Order is the observed convergence order between entries i-1 and i, the spacing scales as 1/(n-1)
func (es *ErrorStudy) Order(i int) (maxOrder, rmsOrder float64) {
	ratio := math.Log(float64(es.numPTS[i]-1) / float64(es.numPTS[i-1]-1))
	maxOrder = math.Log(es.maxErr[i-1]/es.maxErr[i]) / ratio
	rmsOrder = math.Log(es.rmsErr[i-1]/es.rmsErr[i]) / ratio
	return
}

func (es *ErrorStudy) Print() {
	fmt.Printf("Composed vs direct flow map, double gyre, %d steps to t = %v\n", es.steps, es.tMax)
	fmt.Printf("%6s %14s %14s %10s %10s\n", "nx", "max error", "rms error", "max order", "rms order")
	for i, n := range es.numPTS {
		if i == 0 {
			fmt.Printf("%6d %14.6e %14.6e\n", n, es.maxErr[i], es.rmsErr[i])
			continue
		}
		mo, ro := es.Order(i)
		fmt.Printf("%6d %14.6e %14.6e %10.3f %10.3f\n", n, es.maxErr[i], es.rmsErr[i], mo, ro)
	}
}

func (es *ErrorStudy) WriteCSV(fileName string) (err error) {
	var (
		f *os.File
	)
	if f, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := csv.NewWriter(f)
	records := [][]string{{"nx", "steps", "tMax", "maxErr", "rmsErr"}}
	for i, n := range es.numPTS {
		records = append(records, []string{
			strconv.Itoa(n), strconv.Itoa(es.steps), strconv.FormatFloat(es.tMax, 'g', -1, 64),
			strconv.FormatFloat(es.maxErr[i], 'e', 6, 64), strconv.FormatFloat(es.rmsErr[i], 'e', 6, 64),
		})
	}
	return w.WriteAll(records)
}

/*
ComposeError integrates the default double gyre with steps cached macro steps on an
n x (n+1)/2 lattice, composes the full window and compares each node with the
position reached by direct integration through the same steps. Nodes flagged by
either path are skipped.
*/
func ComposeError(n, steps, substeps int, tMax float64, procLimit int) (maxErr, rmsErr float64, err error) {
	var (
		lat   *grid.Lattice
		store = flowmap.NewMemStore()
	)
	if lat, err = grid.NewLattice(grid.Bounds{XMin: 0, XMax: 2, YMin: 0, YMax: 1}, n, (n+1)/2); err != nil {
		return
	}
	rc := &lcs.RunConfig{
		Lattice:   lat,
		TMin:      0,
		TMax:      tMax,
		Steps:     steps,
		Precision: 6,
		Prefix:    "study_",
		Direction: types.Forward,
		Substeps:  substeps,
		ProcLimit: procLimit,
		KeepCache: true,
	}
	if err = rc.Validate(); err != nil {
		return
	}
	var (
		it       = lcs.NewIntegrator(rc, velocity.NewContinuous(double_gyre.NewDefaultDoubleGyre()))
		rs       = lcs.NewRunState(rc)
		composed *grid.Position
	)
	for i := 0; i < steps; i++ {
		if err = it.Run(rc, rs, store); err != nil {
			return
		}
	}
	if composed, err = lcs.NewComposer(rc, store).Compose(steps - 1); err != nil {
		return
	}
	direct := rs.Initial.Copy()
	var errs []float64
	for k := 0; k < lat.Len(); k++ {
		i, j := lat.IJ(k)
		x, y := direct.At(i, j)
		for s := 0; s < steps; s++ {
			x, y = it.Advect(x, y, rc.StepTime(s), rc.SignedDeltaT())
		}
		direct.Set(i, j, x, y)
	}
	direct.UpdateOutOfBounds()
	for k := 0; k < lat.Len(); k++ {
		i, j := lat.IJ(k)
		if composed.IsOutOfBounds(i, j) || direct.IsOutOfBounds(i, j) {
			continue
		}
		xc, yc := composed.At(i, j)
		xd, yd := direct.At(i, j)
		errs = append(errs, math.Hypot(xc-xd, yc-yd))
	}
	if len(errs) == 0 {
		return math.NaN(), math.NaN(), nil
	}
	maxErr = floats.Max(errs)
	floats.Mul(errs, errs)
	rmsErr = math.Sqrt(stat.Mean(errs, nil))
	return
}
