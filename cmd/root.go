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
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "golcs",
	Short: "Finite time Lyapunov exponent fields from cached step flow maps",
	Long: `
Computes the FTLE fields of a 2D velocity field for a sequence of integration
windows that share one final time. Each macro step flow map is integrated once,
cached on disk and composed by interpolation for every longer window.

golcs discrete -I sim_params.json
golcs ftle -I sim_params.json --chart`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.golcs.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print settings, progress and timings")
	rootCmd.PersistentFlags().Int("procLimit", 0, "maximum number of parallel go routines, 0 = number of CPUs")
	rootCmd.PersistentFlags().String("projectDir", ".", "directory holding data/, step_flow_maps/ and results/ftle/")
	rootCmd.PersistentFlags().Bool("profile", false, "write a CPU profile of the run into the project directory")
	for _, name := range []string{"verbose", "procLimit", "projectDir", "profile"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".golcs" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".golcs")
	}
	viper.SetEnvPrefix("GOLCS")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// Global settings shared by the commands
type Settings struct {
	Verbose    bool
	ProcLimit  int
	ProjectDir string
	Profile    bool
}

func GetSettings() (st Settings) {
	st = Settings{
		Verbose:    viper.GetBool("verbose"),
		ProcLimit:  viper.GetInt("procLimit"),
		ProjectDir: viper.GetString("projectDir"),
		Profile:    viper.GetBool("profile"),
	}
	if len(st.ProjectDir) == 0 {
		st.ProjectDir = "."
	}
	return
}

func (st Settings) DataDir() string    { return filepath.Join(st.ProjectDir, "data") }
func (st Settings) StepMapDir() string { return filepath.Join(st.ProjectDir, "step_flow_maps") }
func (st Settings) ResultsDir() string { return filepath.Join(st.ProjectDir, "results", "ftle") }

// StartProfile begins CPU profiling when enabled, the returned func stops it
func (st Settings) StartProfile() (stop func()) {
	if !st.Profile {
		return func() {}
	}
	return profile.Start(profile.CPUProfile, profile.ProfilePath(st.ProjectDir), profile.Quiet).Stop
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}
