package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyze"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
	"github.com/dataflow-analyzer/dataflow-analyzer/tpsanalysis"
)

var (
	metricsActor    string
	metricsChannel  int
	metricsDeadline int64
	metricsPolicy   string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute per-process long-run latency, deadline-miss probability, and per-channel buffer occupancy on a SADF graph",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		g, bounds, _ := loadGraph()

		if err := tpsanalysis.CheckErgodic(g); err != nil {
			logrus.Fatal(err)
		}

		policy := sadf.FullASAP
		if metricsPolicy == "resolved" {
			policy = sadf.ResolvedASAP
		}
		tps, err := analyze.BuildSADFTPS(context.Background(), g, bounds, policy)
		if err != nil {
			logrus.Fatal(err)
		}

		if metricsActor != "" {
			a := actorByName(g, metricsActor)

			latency, err := tpsanalysis.LongRunLatency(tps, a.ID())
			if err != nil {
				logrus.Fatal(err)
			}
			fmt.Printf("long-run latency (%s): mean=%g variance=%g\n", metricsActor, latency.Mean, latency.Variance)

			if metricsDeadline > 0 {
				miss, err := tpsanalysis.PeriodicDeadlineMiss(tps, a.ID(), metricsDeadline)
				if err != nil {
					logrus.Fatal(err)
				}
				fmt.Printf("deadline-miss probability (%s, deadline=%d): %g\n", metricsActor, metricsDeadline, miss)
			}
		}

		if cmd.Flags().Changed("channel") {
			ch := channelByIndex(g, metricsChannel)
			occ, err := tpsanalysis.BufferOccupancy(tps, ch.ID())
			if err != nil {
				logrus.Fatal(err)
			}
			fmt.Printf("expected occupancy (channel %d, %s): mean=%g variance=%g\n", metricsChannel, ch.Name(), occ.Expected, occ.Variance)
			for tokens, p := range occ.Distribution {
				fmt.Printf("  P(occupancy=%d) = %g\n", tokens, p)
			}
		}
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsActor, "actor", "", "process name to compute long-run latency / deadline-miss probability for")
	metricsCmd.Flags().Int64Var(&metricsDeadline, "deadline", 0, "deadline (clock ticks) to compute a deadline-miss probability against; requires --actor")
	metricsCmd.Flags().IntVar(&metricsChannel, "channel", 0, "channel index to compute expected buffer occupancy for")
	metricsCmd.Flags().StringVar(&metricsPolicy, "policy", "resolved", `ASAP scheduling policy: "full" or "resolved"`)
}
