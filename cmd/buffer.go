package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyze"
)

var throughputBoundArg float64

var bufferCmd = &cobra.Command{
	Use:   "buffer",
	Short: "Explore the throughput/storage Pareto front up to a throughput bound",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		g, bounds, defaultBound := loadGraph()

		bound := defaultBound
		if cmd.Flags().Changed("throughput-bound") {
			bound = throughputBoundArg
		}

		front, err := analyze.StorageBufferAnalysis(context.Background(), g, bound, bounds)
		if err != nil {
			logrus.Fatal(err)
		}

		fmt.Printf("%-10s %-10s %s\n", "size", "throughput", "sizes")
		for _, p := range front {
			fmt.Printf("%-10d %-10g %v\n", p.Size, p.Throughput, p.Sizes)
		}
	},
}

func init() {
	bufferCmd.Flags().Float64Var(&throughputBoundArg, "throughput-bound", 0,
		"stop exploring once this throughput is reached (default: the graph file's bounds.throughputBound, or +Inf)")
}
