package tpsanalysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
)

// LatencyResult is LongRunLatency's mean and variance of actorID's
// inter-firing time, per spec.md §4.7 / SPEC_FULL.md's "mean +
// variance of per-firing time" reading of sadf_inter_firing_latency.cc.
type LatencyResult struct {
	Mean     float64
	Variance float64
}

// LongRunLatency is the long-run mean and variance of the time between
// two consecutive End actions of actorID (its inter-firing latency):
// the renewal-reward moments of an interval graph's own equilibrium
// distribution, weighting every excursion by the stationary
// probability of starting it from its boundary state times that
// excursion's own branch probability. Grounded on sadf_deadline_miss.cc's
// orchestration pattern (contract, find the recurrent class, solve for
// pi, weight-sum a per-state local result) generalized from a miss
// indicator to the first and second moments of the excursion time.
//
// The combined weights Σ_i pi[i]·e.Probability form a genuine
// probability distribution over excursions (they sum to 1), so
// stat.Mean gives the exact weighted mean directly. The variance is
// computed as E[T²]-E[T]² via floats.Dot rather than gonum/stat's own
// Variance/MeanVariance: those implement the *unbiased sample*
// estimator (dividing by Σw-1), which is undefined here since the
// weights already sum to exactly 1 — this is a known distribution,
// not a sample drawn from one, so the plain population-variance
// formula (matching sadf_buffer_occupancy.cc's own Variance
// computation, the only moment formula actually read from
// original_source) is the correct one.
func LongRunLatency(tps *sadf.TPS, actorID int) (*LatencyResult, error) {
	ig, err := ContractInterFiring(tps, actorID)
	if err != nil {
		return nil, err
	}
	pi, rec, err := ig.equilibrium()
	if err != nil {
		return nil, err
	}

	var times, weights []float64
	for i, id := range rec {
		for _, e := range ig.Edges[id] {
			times = append(times, float64(e.Time))
			weights = append(weights, pi[i]*e.Probability)
		}
	}

	mean := stat.Mean(times, weights)
	squared := make([]float64, len(times))
	for i, tm := range times {
		squared[i] = tm * tm
	}
	variance := floats.Dot(weights, squared) - mean*mean
	if variance < 0 {
		variance = 0 // rounding error, per sadf_buffer_occupancy.cc's own Variance clamp
	}
	return &LatencyResult{Mean: mean, Variance: variance}, nil
}

// PeriodicDeadlineMiss is the long-run probability that an inter-firing
// interval of actorID exceeds deadline, mirroring
// SADF_Analyse_PeriodicDeadlineMissProbability: sum, over every
// boundary state weighted by its equilibrium probability, the
// probability mass of that state's excursions whose combined elapsed
// time exceeds deadline.
func PeriodicDeadlineMiss(tps *sadf.TPS, actorID int, deadline int64) (float64, error) {
	ig, err := ContractInterFiring(tps, actorID)
	if err != nil {
		return 0, err
	}
	pi, rec, err := ig.equilibrium()
	if err != nil {
		return 0, err
	}

	var miss float64
	for i, id := range rec {
		var local float64
		for _, e := range ig.Edges[id] {
			if e.Time > deadline {
				local += e.Probability
			}
		}
		miss += pi[i] * local
	}
	return miss, nil
}

// BufferOccupancyResult is the long-run occupancy profile of a single
// channel: Expected and Variance are the time-weighted mean and
// variance of its token count, and Distribution maps each observed
// token count to its long-run probability.
type BufferOccupancyResult struct {
	Expected     float64
	Variance     float64
	Distribution map[int]float64
}

// BufferOccupancy reads channelID's token count off of every
// configuration in tps's recurrent class, weighted by each
// configuration's own equilibrium probability times its expected
// holding time — exactly original_source's
// SADF_Analyse_LongRunBufferOccupancy (sadf_buffer_occupancy.cc:102-173):
// AverageTime = Σ pi_c·ΔT_c, AverageBufferOccupancy = Σ pi_c·ΔT_c·occ_c,
// AverageSquaredBufferOccupancy = Σ pi_c·ΔT_c·occ_c², and
// Average = AverageBufferOccupancy/AverageTime,
// Variance = AverageSquaredBufferOccupancy/AverageTime - Average².
// ΔT_c (a configuration's expected holding time before its next step)
// is not 1: SADF steps other than a Time step take zero clock ticks, so
// weighting by plain pi_c alone (as an earlier version of this function
// did) silently miscounts occupancy whenever holding times are
// non-uniform across the recurrent class.
//
// Distribution itself stays pi-weighted (not ΔT_c-weighted): it
// answers "what fraction of configurations show this occupancy",
// a state-counting question, whereas Expected/Variance answer
// "what occupancy does the channel spend its time at", a
// time-weighted one — the source computes only the latter, so
// Distribution remains this package's own addition for convenience.
func BufferOccupancy(tps *sadf.TPS, channelID int) (*BufferOccupancyResult, error) {
	pi, ids, err := Equilibrium(tps)
	if err != nil {
		return nil, err
	}

	res := &BufferOccupancyResult{Distribution: map[int]float64{}}

	occ := make([]float64, len(ids))
	weights := make([]float64, len(ids))
	for i, id := range ids {
		tokens := tps.Configs[id].Channels[channelID].Tokens
		occ[i] = float64(tokens)

		var holdingTime float64
		for _, e := range tps.Transitions[id] {
			holdingTime += e.Probability * float64(e.Time)
		}
		weights[i] = pi[i] * holdingTime

		res.Distribution[tokens] += pi[i]
	}

	averageTime := floats.Sum(weights)
	if averageTime == 0 {
		return nil, analyzererr.New(analyzererr.UnsupportedTopology,
			"tpsanalysis: channel's recurrent class implies no long-run progress in time")
	}

	res.Expected = stat.Mean(occ, weights)

	squared := make([]float64, len(occ))
	for i, o := range occ {
		squared[i] = o * o
	}
	res.Variance = floats.Dot(weights, squared)/averageTime - res.Expected*res.Expected
	if res.Variance < 0 {
		res.Variance = 0
	}
	return res, nil
}
