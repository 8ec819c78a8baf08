package cmd

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyze"
	"github.com/dataflow-analyzer/dataflow-analyzer/config"
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
)

// loadGraph parses --graph into a graph.Graph and the analyze.Bounds
// an entry point needs, translating config's lower-level config.Bounds
// into analyze.Bounds (the two stay distinct types: a loader concern
// versus an orchestration concern).
func loadGraph() (*graph.Graph, analyze.Bounds, float64) {
	requireGraphPath()
	g, cb, err := config.Load(context.Background(), graphPath)
	if err != nil {
		logrus.Fatalf("loading %s: %v", graphPath, err)
	}
	bounds := analyze.Bounds{
		MaxStackSize: cb.MaxStackSize,
		MaxHashSize:  cb.MaxHashSize,
		MaxConfigs:   cb.MaxConfigs,
	}
	return g, bounds, cb.ThroughputBound
}

// actorByName finds the actor named name in g, fataling if there is
// none — every subcommand that targets one process needs this.
func actorByName(g *graph.Graph, name string) *graph.Actor {
	for _, a := range g.Actors {
		if a.Name() == name {
			return a
		}
	}
	logrus.Fatalf("no actor named %q in graph", name)
	return nil
}

// channelByIndex finds the channel at position idx in g.Channels,
// fataling if idx is out of range.
func channelByIndex(g *graph.Graph, idx int) *graph.Channel {
	if idx < 0 || idx >= len(g.Channels) {
		logrus.Fatalf("channel index %d out of range (graph has %d channels)", idx, len(g.Channels))
	}
	return g.Channels[idx]
}
