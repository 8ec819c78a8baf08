// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	graphPath string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "dataflow-analyzer",
	Short: "Exhaustive state-space analysis of SDF/CSDF/SADF dataflow graphs",
}

// Execute runs the root command, exiting the process with status 1 on
// any error, matching the teacher's Execute().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&graphPath, "graph", "", "path to the YAML graph description (required)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(throughputCmd)
	rootCmd.AddCommand(bufferCmd)
	rootCmd.AddCommand(sadfCmd)
	rootCmd.AddCommand(metricsCmd)
}

// setLogLevel parses logLevel via logrus.ParseLevel exactly as the
// teacher's runCmd does, fataling the process on an unrecognized level.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// requireGraphPath fatals if --graph was not supplied, since every
// subcommand needs a graph to analyze.
func requireGraphPath() {
	if graphPath == "" {
		logrus.Fatal("--graph is required")
	}
}
