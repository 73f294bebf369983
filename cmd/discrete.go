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

	"github.com/spf13/cobra"

	"github.com/notargets/golcs/InputParameters"
	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/utils"
	"github.com/notargets/golcs/velocity"
)

// DiscreteCmd represents the discrete command
var DiscreteCmd = &cobra.Command{
	Use:   "discrete",
	Short: "Write double gyre velocity snapshots on the data grid",
	Long: `
Samples the double gyre on the data_nx x data_ny grid at every data_delta_t
between t_min and t_max and writes one text snapshot per time into data/.

golcs discrete -I sim_params.json`,
	Run: func(cmd *cobra.Command, args []string) {
		fileName, _ := cmd.Flags().GetString("inputParameters")
		st := GetSettings()
		rp := processInput(fileName)
		if st.Verbose {
			rp.Print()
		}
		files, err := RunDiscrete(cmd.Context(), st, rp)
		exitOnError(err)
		fmt.Printf("Wrote %d velocity snapshots into %s\n", len(files), st.DataDir())
	},
}

func init() {
	rootCmd.AddCommand(DiscreteCmd)
	DiscreteCmd.Flags().StringP("inputParameters", "I", "", "JSON or YAML file of run parameters, the data grid and double_gyre block are used")
}

// RunDiscrete writes the snapshot files of the configured double gyre
func RunDiscrete(ctx context.Context, st Settings, rp *InputParameters.RunParameters) (files []string, err error) {
	var (
		dataLat *grid.Lattice
		clock   utils.Clock
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if dataLat, err = rp.DataLattice(); err != nil {
		return
	}
	if err = os.MkdirAll(st.DataDir(), 0755); err != nil {
		return
	}
	clock.Begin()
	files, err = velocity.WriteSnapshots(ctx, st.DataDir(), rp.FilePrefix, dataLat, rp.GetDoubleGyre(),
		rp.TMin, rp.TMax, rp.DataDeltaT, rp.Precision(), st.ProcLimit)
	clock.End()
	if err == nil && st.Verbose {
		fmt.Printf("Snapshot generation time: %.4f s\n", clock.Seconds())
	}
	return
}
