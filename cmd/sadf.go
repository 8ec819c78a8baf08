package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyze"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
)

var policyArg string

var sadfCmd = &cobra.Command{
	Use:   "sadf",
	Short: "Build a SADF graph's Timed Probabilistic System and its equilibrium distribution",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		g, bounds, _ := loadGraph()

		policy := sadf.FullASAP
		if policyArg == "resolved" {
			policy = sadf.ResolvedASAP
		} else if policyArg != "full" {
			logrus.Fatalf("--policy must be \"full\" or \"resolved\", got %q", policyArg)
		}

		tps, err := analyze.BuildSADFTPS(context.Background(), g, bounds, policy)
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.Infof("built TPS with %d configurations under %s policy", len(tps.Configs), policy)

		result, err := analyze.Equilibrium(context.Background(), tps)
		if err != nil {
			logrus.Fatal(err)
		}

		fmt.Printf("%-10s %s\n", "config", "probability")
		for i, id := range result.ConfigIDs {
			fmt.Printf("%-10d %g\n", id, result.Distribution[i])
		}
	},
}

func init() {
	sadfCmd.Flags().StringVar(&policyArg, "policy", "full", `ASAP scheduling policy: "full" or "resolved"`)
}
