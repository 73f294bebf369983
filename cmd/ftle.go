/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/golcs/InputParameters"
	"github.com/notargets/golcs/flowmap"
	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/lcs"
	"github.com/notargets/golcs/plotting"
	"github.com/notargets/golcs/velocity"
)

type ModelFTLE struct {
	InputFile string
	Graph     bool
	Chart     bool
	Analytic  bool // Overrides velocity_source with the double gyre
	KeepCache bool
	Delay     time.Duration
}

// FTLECmd represents the ftle command
var FTLECmd = &cobra.Command{
	Use:   "ftle",
	Short: "Unidirectional FTLE fields for every integration window ending at the final time",
	Long: `
Integrates one step flow map per macro step, caches them in step_flow_maps/,
composes them for every window length and writes one FTLE field per window
into results/ftle/.

golcs ftle -I sim_params.json [--graph] [--chart] [--analytic]`,
	Run: func(cmd *cobra.Command, args []string) {
		mf := &ModelFTLE{}
		mf.InputFile, _ = cmd.Flags().GetString("inputParameters")
		mf.Graph, _ = cmd.Flags().GetBool("graph")
		mf.Chart, _ = cmd.Flags().GetBool("chart")
		mf.Analytic, _ = cmd.Flags().GetBool("analytic")
		mf.KeepCache, _ = cmd.Flags().GetBool("keepCache")
		dr, _ := cmd.Flags().GetInt("delay")
		mf.Delay = time.Duration(dr) * time.Millisecond
		st := GetSettings()
		rp := processInput(mf.InputFile)
		if st.Verbose {
			rp.Print()
		}
		stop := st.StartProfile()
		summaries, last, err := RunFTLE(cmd.Context(), mf, st, rp)
		stop()
		exitOnError(err)
		if mf.Chart {
			fmt.Print(plotting.SummaryChart(summaries,
				fmt.Sprintf("%s FTLE max (red) and mean (blue) by window length", strings.ToLower(last.Direction.String()))))
		}
		if mf.Graph {
			plotting.PlotFTLE(last, rp.Precision(), mf.Delay)
		}
	},
}

func init() {
	rootCmd.AddCommand(FTLECmd)
	FTLECmd.Flags().StringP("inputParameters", "I", "", "JSON or YAML file of run parameters like:\n\t- domain bounds and grid sizes\n\t- time range, data_delta_t and steps")
	FTLECmd.Flags().BoolP("graph", "g", false, "display the FTLE field of the longest window")
	FTLECmd.Flags().BoolP("chart", "c", false, "print a terminal chart of the FTLE range of every window")
	FTLECmd.Flags().BoolP("analytic", "a", false, "sample the double gyre directly instead of the stored velocity data")
	FTLECmd.Flags().Bool("keepCache", true, "keep the step flow maps after the run")
	FTLECmd.Flags().IntP("delay", "d", 0, "milliseconds to hold the graph, 0 = until interrupted")
}

func processInput(fileName string) (rp *InputParameters.RunParameters) {
	var (
		err error
	)
	if len(fileName) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParameters) in JSON or YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
{
    "x_min": 0.0, "x_max": 2.0, "y_min": 0.0, "y_max": 1.0,
    "nx": 201, "ny": 101, "data_nx": 401, "data_ny": 201,
    "t_min": 0.0, "t_max": 10.0, "data_delta_t": 0.025,
    "steps": 40,
    "file_prefix": "double_gyre_",
    "direction": "forward"
}
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	rp, err = InputParameters.Load(fileName)
	exitOnError(err)
	return
}

// NewSampler builds the velocity sampler selected by the run parameters
func NewSampler(ctx context.Context, st Settings, rp *InputParameters.RunParameters,
	analytic bool) (sampler velocity.Sampler, err error) {
	var (
		vs      InputParameters.VelocitySource
		policy  velocity.TemporalPolicy
		dataLat *grid.Lattice
	)
	if vs, err = rp.GetVelocitySource(); err != nil {
		return
	}
	if analytic || vs == InputParameters.Analytic {
		return velocity.NewContinuous(rp.GetDoubleGyre()), nil
	}
	if policy, err = rp.GetTemporalPolicy(); err != nil {
		return
	}
	if dataLat, err = rp.DataLattice(); err != nil {
		return
	}
	if st.Verbose {
		fmt.Printf("Reading velocity snapshots from %s\n", st.DataDir())
	}
	return velocity.LoadDiscrete(ctx, st.DataDir(), rp.FilePrefix, dataLat,
		rp.TMin, rp.TMax, rp.DataDeltaT, rp.Precision(), policy, st.ProcLimit)
}

// RunFTLE performs a complete run, returning the window summaries and the longest window
func RunFTLE(ctx context.Context, mf *ModelFTLE, st Settings,
	rp *InputParameters.RunParameters) (summaries []lcs.Summary, last *lcs.Result, err error) {
	var (
		rc      *lcs.RunConfig
		sampler velocity.Sampler
		store   *flowmap.FileStore
		out     *lcs.FileResultWriter
		s       *lcs.Solver
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if rc, err = rp.ToRunConfig(st.ProcLimit, st.Verbose, mf.KeepCache); err != nil {
		return
	}
	if sampler, err = NewSampler(ctx, st, rp, mf.Analytic); err != nil {
		return
	}
	if store, err = flowmap.NewFileStore(st.StepMapDir()); err != nil {
		return
	}
	defer func() {
		if cerr := store.Close(); err == nil {
			err = cerr
		}
	}()
	if out, err = lcs.NewFileResultWriter(st.ResultsDir(), rc.Prefix, rc.Precision); err != nil {
		return
	}
	if s, err = lcs.NewSolver(rc, sampler, store, out); err != nil {
		return
	}
	if summaries, err = s.Solve(); err != nil {
		return
	}
	last = s.Last
	if st.Verbose {
		for _, sm := range summaries {
			fmt.Printf("%s: min = %.6f, max = %.6f, mean = %.6f, valid = %d\n",
				sm.FileName, sm.Min, sm.Max, sm.Mean, sm.Valid)
		}
	}
	return
}
