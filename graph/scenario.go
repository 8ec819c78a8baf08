package graph

// Profile is one (executionTime, weight) pair; weights normalize into
// a discrete distribution over the profiles of a (sub)scenario
// (spec.md §4.6, GLOSSARY "Profile").
type Profile struct {
	ExecTime int
	Weight   float64
}

// Scenario is a kernel-local timing mode: a named set of profiles a
// kernel chooses between probabilistically at firing start.
type Scenario struct {
	Name     string
	Profiles []Profile
}

// TotalWeight returns the sum of profile weights, used to normalize
// Weight into a probability.
func (s *Scenario) TotalWeight() float64 {
	var total float64
	for _, p := range s.Profiles {
		total += p.Weight
	}
	return total
}

// SubScenario is a detector-local refinement of a scenario: it carries
// its own profile set and (via the owning detector's Markov map) its
// own transition probabilities to other sub-scenarios.
type SubScenario struct {
	Name     string
	Profiles []Profile
}

// TotalWeight returns the sum of profile weights.
func (s *SubScenario) TotalWeight() float64 {
	var total float64
	for _, p := range s.Profiles {
		total += p.Weight
	}
	return total
}

// MarkovChain is a detector-local stochastic state machine over
// sub-scenario names: State i's outgoing probabilities to each
// successor must sum to 1. One MarkovChain exists per detector
// scenario (a detector can run several independent chains, keyed by
// scenario name, in Actor.Markov).
type MarkovChain struct {
	States  []string
	Initial string
	Trans   map[string]map[string]float64 // from -> to -> probability
}

// Successors returns the (subScenario, probability) pairs reachable
// from state, in State order for deterministic iteration.
func (m *MarkovChain) Successors(state string) []MarkovTransition {
	row := m.Trans[state]
	out := make([]MarkovTransition, 0, len(row))
	for _, s := range m.States {
		if p, ok := row[s]; ok && p > 0 {
			out = append(out, MarkovTransition{To: s, Probability: p})
		}
	}
	return out
}

// MarkovTransition is one outgoing edge of a MarkovChain.
type MarkovTransition struct {
	To          string
	Probability float64
}
