package tpsanalysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/dataflow-analyzer/dataflow-analyzer/analyzererr"
	"github.com/dataflow-analyzer/dataflow-analyzer/sadf"
)

// edgeProb is one outgoing probability-weighted edge, used by both the
// full TPS and the contracted interval graph.
type edgeProb struct {
	To   int
	Prob float64
}

// equilibrium solves for the stationary distribution of the Markov
// chain formed by ids and trans: the balance equations pi_j = sum_i
// P(i->j) pi_i for every state but the last, plus a normalization
// constraint (sum pi = 1) replacing the dropped balance row — the same
// system original_source's matrix.cc assembles by hand in
// computeEigenVector() before eliminating it with a deferred-pivot
// Gaussian elimination. Here gonum/mat's LU solve (with its own
// internal partial pivoting) plays that role instead of a hand-rolled
// elimination loop.
func equilibrium(ids []int, trans func(id int) []edgeProb) ([]float64, error) {
	n := len(ids)
	pos := make(map[int]int, n)
	for i, id := range ids {
		pos[id] = i
	}

	a := mat.NewDense(n, n, nil)
	for r := 0; r < n-1; r++ {
		a.Set(r, r, 1)
	}
	for _, id := range ids {
		i := pos[id]
		for _, e := range trans(id) {
			j, ok := pos[e.To]
			if !ok || j == n-1 {
				continue
			}
			a.Set(j, i, a.At(j, i)-e.Prob)
		}
	}
	for c := 0; c < n; c++ {
		a.Set(n-1, c, 1)
	}

	b := mat.NewVecDense(n, nil)
	b.SetVec(n-1, 1)

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, analyzererr.Wrap(analyzererr.SingularSystem, "tpsanalysis: equilibrium system is singular", err)
	}

	pi := make([]float64, n)
	for i := 0; i < n; i++ {
		pi[i] = x.AtVec(i)
	}
	return pi, nil
}

// Equilibrium computes the stationary distribution of tps's unique
// recurrent class, returning it alongside the (sorted) TPS
// configuration ids it is indexed by. Used directly by metrics defined
// over the whole configuration (e.g. buffer occupancy); the
// per-process metrics instead solve the contracted interval graph
// produced by ContractInterFiring.
func Equilibrium(tps *sadf.TPS) (pi []float64, ids []int, err error) {
	n := len(tps.Configs)
	succs := func(i int) []int {
		out := make([]int, 0, len(tps.Transitions[i]))
		for _, e := range tps.Transitions[i] {
			out = append(out, e.To)
		}
		return out
	}
	ids, err = terminalComponent(n, succs)
	if err != nil {
		return nil, nil, err
	}
	trans := func(id int) []edgeProb {
		out := make([]edgeProb, 0, len(tps.Transitions[id]))
		for _, e := range tps.Transitions[id] {
			out = append(out, edgeProb{To: e.To, Prob: e.Probability})
		}
		return out
	}
	pi, err = equilibrium(ids, trans)
	return pi, ids, err
}
