package config

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/graph"
)

// Load reads and parses the YAML graph description at path, returning
// the assembled graph.Graph and its resolved Bounds. ctx is checked
// once before the read so a caller can cancel a load that never
// actually starts; os.ReadFile itself has no cancellation hook once
// under way.
func Load(ctx context.Context, path string) (*graph.Graph, Bounds, error) {
	if err := ctx.Err(); err != nil {
		return nil, Bounds{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Bounds{}, analyzererr.Wrap(analyzererr.InconsistentGraph,
			fmt.Sprintf("config: reading %q", path), err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, Bounds{}, analyzererr.Wrap(analyzererr.InconsistentGraph,
			fmt.Sprintf("config: parsing %q", path), err)
	}

	g, err := build(&doc)
	if err != nil {
		return nil, Bounds{}, err
	}

	bounds := Bounds{
		MaxStackSize:    doc.Bounds.MaxStackSize,
		MaxHashSize:     doc.Bounds.MaxHashSize,
		MaxConfigs:      doc.Bounds.MaxConfigs,
		ThroughputBound: math.Inf(1),
	}
	if doc.Bounds.ThroughputBound != nil {
		bounds.ThroughputBound = *doc.Bounds.ThroughputBound
	}
	return g, bounds, nil
}

func build(doc *document) (*graph.Graph, error) {
	b := graph.NewBuilder()

	actorID := make(map[string]int, len(doc.Actors))
	portID := make(map[string]map[string]int, len(doc.Actors))

	for _, ad := range doc.Actors {
		if ad.Name == "" {
			return nil, analyzererr.New(analyzererr.InconsistentGraph, "config: actor with empty name")
		}
		if _, dup := actorID[ad.Name]; dup {
			return nil, analyzererr.New(analyzererr.InconsistentGraph, fmt.Sprintf("config: duplicate actor %q", ad.Name))
		}

		kind, err := parseKind(ad.Kind)
		if err != nil {
			return nil, err
		}
		id := b.AddActor(ad.Name, kind)
		actorID[ad.Name] = id
		if len(ad.ExecTimes) > 0 {
			b.SetExecTimes(id, ad.ExecTimes)
		}

		ports := make(map[string]int, len(ad.Ports))
		for _, pd := range ad.Ports {
			dir, err := parseDirection(pd.Dir)
			if err != nil {
				return nil, err
			}
			if len(pd.Rates) == 0 {
				return nil, analyzererr.New(analyzererr.InconsistentGraph,
					fmt.Sprintf("config: actor %q port %q has no rates", ad.Name, pd.Name))
			}
			pid := b.AddPort(id, dir, pd.Rates)
			ports[pd.Name] = pid
		}
		portID[ad.Name] = ports

		for _, sd := range ad.Scenarios {
			b.AddScenario(id, &graph.Scenario{Name: sd.Name, Profiles: toProfiles(sd.Profiles)})
		}
		for _, sd := range ad.SubScenarios {
			b.AddSubScenario(id, &graph.SubScenario{Name: sd.Name, Profiles: toProfiles(sd.Profiles)})
		}
		for _, md := range ad.Markov {
			b.AddMarkovChain(id, md.Scenario, &graph.MarkovChain{
				States:  md.States,
				Initial: md.Initial,
				Trans:   md.Trans,
			})
		}
	}

	for _, cd := range doc.Channels {
		srcActor, ok := actorID[cd.Src.Actor]
		if !ok {
			return nil, analyzererr.New(analyzererr.InconsistentGraph, fmt.Sprintf("config: channel references unknown actor %q", cd.Src.Actor))
		}
		dstActor, ok := actorID[cd.Dst.Actor]
		if !ok {
			return nil, analyzererr.New(analyzererr.InconsistentGraph, fmt.Sprintf("config: channel references unknown actor %q", cd.Dst.Actor))
		}
		srcPort, ok := portID[cd.Src.Actor][cd.Src.Port]
		if !ok {
			return nil, analyzererr.New(analyzererr.InconsistentGraph, fmt.Sprintf("config: actor %q has no port %q", cd.Src.Actor, cd.Src.Port))
		}
		dstPort, ok := portID[cd.Dst.Actor][cd.Dst.Port]
		if !ok {
			return nil, analyzererr.New(analyzererr.InconsistentGraph, fmt.Sprintf("config: actor %q has no port %q", cd.Dst.Actor, cd.Dst.Port))
		}
		b.AddChannel(srcActor, srcPort, dstActor, dstPort, cd.InitialTokens, cd.BufferSize, cd.Control)
	}

	g, err := b.Build()
	if err != nil {
		return nil, analyzererr.Wrap(analyzererr.InconsistentGraph, "config: assembled graph failed validation", err)
	}
	return g, nil
}

func toProfiles(docs []profileDoc) []graph.Profile {
	out := make([]graph.Profile, 0, len(docs))
	for _, p := range docs {
		out = append(out, graph.Profile{ExecTime: p.ExecTime, Weight: p.Weight})
	}
	return out
}

func parseKind(s string) (graph.ActorKind, error) {
	switch s {
	case "", "plain":
		return graph.KindPlain, nil
	case "kernel":
		return graph.KindKernel, nil
	case "detector":
		return graph.KindDetector, nil
	default:
		return 0, analyzererr.New(analyzererr.InconsistentGraph, fmt.Sprintf("config: unknown actor kind %q", s))
	}
}

func parseDirection(s string) (graph.Direction, error) {
	switch s {
	case "in":
		return graph.In, nil
	case "out":
		return graph.Out, nil
	default:
		return 0, analyzererr.New(analyzererr.InconsistentGraph, fmt.Sprintf("config: unknown port direction %q", s))
	}
}
