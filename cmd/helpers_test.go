package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
)

// twoActorCmdGraph builds a minimal two-actor SDF graph for exercising
// the CLI's flag-parsing helpers without going through config.Load.
func twoActorCmdGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	a := b.AddActor("A", graph.KindPlain)
	b.SetExecTimes(a, []int{1})
	outPort := b.AddPort(a, graph.Out, []int{2})

	c := b.AddActor("B", graph.KindPlain)
	b.SetExecTimes(c, []int{1})
	inPort := b.AddPort(c, graph.In, []int{2})

	b.AddChannel(a, outPort, c, inPort, 2, nil, false)

	g, err := b.Build()
	require.NoError(t, err)
	return g
}
