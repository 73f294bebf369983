package InputParameters

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/golcs/types"
	"github.com/notargets/golcs/velocity"
)

var simParamsJSON = []byte(`{
	"x_min": 0.0,
	"x_max": 2.0,
	"y_min": 0.0,
	"y_max": 1.0,
	"nx": 201,
	"ny": 101,
	"data_nx": 401,
	"data_ny": 201,
	"t_min": 0.0,
	"t_max": 10.0,
	"data_delta_t": 0.025,
	"steps": 40,
	"file_prefix": "double_gyre_",
	"direction": "forward"
}`)

func TestRunParameters(t *testing.T) {
	{ // JSON run file
		var rp RunParameters
		require.NoError(t, rp.Parse(simParamsJSON))
		require.NoError(t, rp.Validate())
		assert.Equal(t, 201, rp.Nx)
		assert.Equal(t, 201, rp.DataNy)
		assert.Equal(t, "double_gyre_", rp.FilePrefix)
		assert.Equal(t, 3, rp.Precision())
		tp, err := rp.GetTemporalPolicy()
		require.NoError(t, err)
		assert.Equal(t, velocity.Linear, tp)
		vs, err := rp.GetVelocitySource()
		require.NoError(t, err)
		assert.Equal(t, Discrete, vs)
		assert.Equal(t, 0.1, rp.GetDoubleGyre().A)
		rp.Print()

		rc, err := rp.ToRunConfig(2, false, true)
		require.NoError(t, err)
		assert.Equal(t, 0.25, rc.CalcDeltaT())
		assert.Equal(t, types.Forward, rc.Direction)
		assert.Equal(t, 1, rc.Substeps)
		assert.Equal(t, 201, rc.Lattice.Nx)
		assert.Equal(t, "double_gyre_positive_0.250", rc.StepKey(1).String())
	}
	{ // YAML with the optional extensions
		var rp RunParameters
		require.NoError(t, rp.Parse([]byte(`
x_min: 0
x_max: 2
y_min: 0
y_max: 1
nx: 51
ny: 26
data_nx: 51
data_ny: 26
t_min: 0
t_max: 5
data_delta_t: 0.1
steps: 10
file_prefix: gyre_
direction: Backward
temporal_interpolation: nearest
substeps: 4
velocity_source: analytic
double_gyre:
  A: 0.2
  epsilon: 0.1
  omega: 0.628
`)))
		require.NoError(t, rp.Validate())
		tp, _ := rp.GetTemporalPolicy()
		assert.Equal(t, velocity.Nearest, tp)
		vs, _ := rp.GetVelocitySource()
		assert.Equal(t, Analytic, vs)
		dg := rp.GetDoubleGyre()
		assert.Equal(t, [3]float64{0.2, 0.1, 0.628}, [3]float64{dg.A, dg.Epsilon, dg.Omega})
		rc, err := rp.ToRunConfig(0, true, false)
		require.NoError(t, err)
		assert.Equal(t, types.Backward, rc.Direction)
		assert.Equal(t, 4, rc.Substeps)
		assert.Equal(t, 1, rc.Precision)
		assert.Equal(t, "gyre_negative_4.5", rc.StepKey(1).String())
		rp.Print()
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(rp *RunParameters)
	}{
		{"zero steps", func(rp *RunParameters) { rp.Steps = 0 }},
		{"coarse grid", func(rp *RunParameters) { rp.Nx = 1 }},
		{"coarse data grid", func(rp *RunParameters) { rp.DataNy = 0 }},
		{"empty x range", func(rp *RunParameters) { rp.XMax = rp.XMin }},
		{"inverted y range", func(rp *RunParameters) { rp.YMin = 2 }},
		{"inverted time range", func(rp *RunParameters) { rp.TMin = 11 }},
		{"no data spacing", func(rp *RunParameters) { rp.DataDeltaT = 0 }},
		{"no prefix", func(rp *RunParameters) { rp.FilePrefix = " " }},
		{"data spacing beyond key precision", func(rp *RunParameters) { rp.DataDeltaT = 1e-13 }},
		{"data spacing with too many digits", func(rp *RunParameters) { rp.DataDeltaT = 0.1234567890123 }},
		{"unknown direction", func(rp *RunParameters) { rp.Direction = "sideways" }},
		{"missing direction", func(rp *RunParameters) { rp.Direction = "" }},
		{"unknown policy", func(rp *RunParameters) { rp.TemporalInterpolation = "cubic" }},
		{"unknown source", func(rp *RunParameters) { rp.VelocitySource = "measured" }},
		{"negative substeps", func(rp *RunParameters) { rp.Substeps = -1 }},
	} {
		var rp RunParameters
		require.NoError(t, rp.Parse(simParamsJSON))
		tc.modify(&rp)
		err := rp.Validate()
		assert.True(t, errors.Is(err, ErrInvalidParameters), tc.name)
		_, err = rp.ToRunConfig(1, false, false)
		assert.Error(t, err, tc.name)
	}
	{ // Direction errors keep their own sentinel
		var rp RunParameters
		require.NoError(t, rp.Parse(simParamsJSON))
		rp.Direction = "up"
		assert.True(t, errors.Is(rp.Validate(), types.ErrUnknownDirection))
	}
	{ // A macro step finer than the key precision cannot be keyed
		var rp RunParameters
		require.NoError(t, rp.Parse(simParamsJSON))
		rp.DataDeltaT = 1 // zero digits, while calc_delta_t is 0.25
		_, err := rp.ToRunConfig(1, false, false)
		assert.True(t, errors.Is(err, ErrInvalidParameters))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "sim_params.json")
	require.NoError(t, os.WriteFile(good, simParamsJSON, 0644))
	rp, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, 40, rp.Steps)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"steps": "many"}`), 0644))
	_, err = Load(bad)
	assert.True(t, errors.Is(err, ErrInvalidParameters))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
