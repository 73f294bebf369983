package InputParameters

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/lcs"
	"github.com/notargets/golcs/types"
	"github.com/notargets/golcs/utils"
	"github.com/notargets/golcs/velocity"
	"github.com/notargets/golcs/velocity/double_gyre"
)

var ErrInvalidParameters = errors.New("invalid run parameters")

type VelocitySource uint8

const (
	Discrete VelocitySource = iota
	Analytic
)

var VelocitySourceNameMap = map[string]VelocitySource{
	"discrete": Discrete,
	"analytic": Analytic,
}

type DoubleGyreParameters struct {
	A       float64 `json:"A"`
	Epsilon float64 `json:"epsilon"`
	Omega   float64 `json:"omega"`
}

// Parameters obtained from the JSON or YAML run file
type RunParameters struct {
	XMin                  float64               `json:"x_min"`
	XMax                  float64               `json:"x_max"`
	YMin                  float64               `json:"y_min"`
	YMax                  float64               `json:"y_max"`
	Nx                    int                   `json:"nx"`      // Computation grid
	Ny                    int                   `json:"ny"`      // Computation grid
	DataNx                int                   `json:"data_nx"` // Stored velocity grid
	DataNy                int                   `json:"data_ny"` // Stored velocity grid
	TMin                  float64               `json:"t_min"`
	TMax                  float64               `json:"t_max"`
	DataDeltaT            float64               `json:"data_delta_t"`
	Steps                 int                   `json:"steps"`
	FilePrefix            string                `json:"file_prefix"`
	Direction             string                `json:"direction"`
	TemporalInterpolation string                `json:"temporal_interpolation,omitempty"` // linear (default) or nearest
	Substeps              int                   `json:"substeps,omitempty"`               // RK4 sub steps per macro step
	VelocitySource        string                `json:"velocity_source,omitempty"`        // discrete (default) or analytic
	DoubleGyre            *DoubleGyreParameters `json:"double_gyre,omitempty"`
}

func (rp *RunParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

// Load reads, parses and validates a run file
func Load(fileName string) (rp *RunParameters, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	rp = &RunParameters{}
	if err = rp.Parse(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParameters, fileName, err)
	}
	if err = rp.Validate(); err != nil {
		return nil, err
	}
	return
}

func (rp *RunParameters) Validate() (err error) {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, fmt.Sprintf(format, args...))
	}
	switch {
	case rp.Steps < 1:
		return invalid("steps must be at least 1, have %d", rp.Steps)
	case rp.Nx < 2 || rp.Ny < 2:
		return invalid("nx and ny must be at least 2, have %d, %d", rp.Nx, rp.Ny)
	case rp.DataNx < 2 || rp.DataNy < 2:
		return invalid("data_nx and data_ny must be at least 2, have %d, %d", rp.DataNx, rp.DataNy)
	case !(rp.XMin < rp.XMax):
		return invalid("x_min (%v) must be less than x_max (%v)", rp.XMin, rp.XMax)
	case !(rp.YMin < rp.YMax):
		return invalid("y_min (%v) must be less than y_max (%v)", rp.YMin, rp.YMax)
	case !(rp.TMin < rp.TMax):
		return invalid("t_min (%v) must be less than t_max (%v)", rp.TMin, rp.TMax)
	case !(rp.DataDeltaT > 0):
		return invalid("data_delta_t must be positive, have %v", rp.DataDeltaT)
	case !utils.IsIntegralAt(rp.DataDeltaT, rp.Precision()):
		return invalid("data_delta_t (%v) needs more than %d decimal digits", rp.DataDeltaT, utils.MaxTimePrecision)
	case len(strings.TrimSpace(rp.FilePrefix)) == 0:
		return invalid("file_prefix is empty")
	case rp.Substeps < 0:
		return invalid("substeps must not be negative, have %d", rp.Substeps)
	}
	if _, err = rp.GetDirection(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if _, err = rp.GetTemporalPolicy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if _, err = rp.GetVelocitySource(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	return
}

func (rp *RunParameters) Bounds() grid.Bounds {
	return grid.Bounds{XMin: rp.XMin, XMax: rp.XMax, YMin: rp.YMin, YMax: rp.YMax}
}

func (rp *RunParameters) GetDirection() (types.Direction, error) {
	return types.NewDirection(rp.Direction)
}

func (rp *RunParameters) GetTemporalPolicy() (velocity.TemporalPolicy, error) {
	return velocity.NewTemporalPolicy(rp.TemporalInterpolation)
}

func (rp *RunParameters) GetVelocitySource() (vs VelocitySource, err error) {
	var (
		ok bool
	)
	if len(rp.VelocitySource) == 0 {
		return Discrete, nil
	}
	if vs, ok = VelocitySourceNameMap[strings.ToLower(rp.VelocitySource)]; !ok {
		err = fmt.Errorf("velocity_source must be 'discrete' or 'analytic', have %q", rp.VelocitySource)
	}
	return
}

// Precision is the number of decimal digits that makes data_delta_t integral
func (rp *RunParameters) Precision() int {
	return utils.GetPrecision(rp.DataDeltaT)
}

// GetDoubleGyre returns the configured gyre, or the default one when none is given
func (rp *RunParameters) GetDoubleGyre() *double_gyre.DoubleGyre {
	if rp.DoubleGyre == nil {
		return double_gyre.NewDefaultDoubleGyre()
	}
	return double_gyre.NewDoubleGyre(rp.DoubleGyre.A, rp.DoubleGyre.Epsilon, rp.DoubleGyre.Omega)
}

func (rp *RunParameters) DataLattice() (*grid.Lattice, error) {
	return grid.NewLattice(rp.Bounds(), rp.DataNx, rp.DataNy)
}

// ToRunConfig converts validated parameters into the fixed configuration of a run
func (rp *RunParameters) ToRunConfig(procLimit int, verbose, keepCache bool) (rc *lcs.RunConfig, err error) {
	var (
		lat *grid.Lattice
		dir types.Direction
	)
	if err = rp.Validate(); err != nil {
		return
	}
	if lat, err = grid.NewLattice(rp.Bounds(), rp.Nx, rp.Ny); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	dir, _ = rp.GetDirection()
	rc = &lcs.RunConfig{
		Lattice:   lat,
		TMin:      rp.TMin,
		TMax:      rp.TMax,
		Steps:     rp.Steps,
		Precision: rp.Precision(),
		Prefix:    rp.FilePrefix,
		Direction: dir,
		Substeps:  rp.Substeps,
		ProcLimit: procLimit,
		Verbose:   verbose,
		KeepCache: keepCache,
	}
	if rc.Substeps == 0 {
		rc.Substeps = 1
	}
	if err = rc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	return
}

func (rp *RunParameters) Print() {
	fmt.Printf("*** Settings ***\n")
	fmt.Printf("x_min = %v\n", rp.XMin)
	fmt.Printf("x_max = %v\n", rp.XMax)
	fmt.Printf("y_min = %v\n", rp.YMin)
	fmt.Printf("y_max = %v\n", rp.YMax)
	fmt.Printf("nx = %d\n", rp.Nx)
	fmt.Printf("ny = %d\n", rp.Ny)
	fmt.Printf("data_nx = %d\n", rp.DataNx)
	fmt.Printf("data_ny = %d\n", rp.DataNy)
	fmt.Printf("t_min = %v\n", rp.TMin)
	fmt.Printf("t_max = %v\n", rp.TMax)
	fmt.Printf("data_delta_t = %v\n", rp.DataDeltaT)
	fmt.Printf("steps = %d\n", rp.Steps)
	fmt.Printf("file_prefix = \"%s\"\n", rp.FilePrefix)
	fmt.Printf("direction = \"%s\"\n", rp.Direction)
	if tp, err := rp.GetTemporalPolicy(); err == nil {
		fmt.Printf("temporal_interpolation = %s\n", tp)
	}
	if rp.Substeps > 1 {
		fmt.Printf("substeps = %d\n", rp.Substeps)
	}
	if vs, err := rp.GetVelocitySource(); err == nil && vs == Analytic {
		dg := rp.GetDoubleGyre()
		fmt.Printf("velocity_source = analytic, double gyre A = %v, epsilon = %v, omega = %v\n",
			dg.A, dg.Epsilon, dg.Omega)
	}
	fmt.Printf("\n")
}
