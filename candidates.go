package pbessym

import (
	"iter"
	"slices"

	"github.com/symlab/pbessym/debug"
	"github.com/symlab/pbessym/perm"
	"github.com/symlab/pbessym/srf"
)

// Candidate is a per-clique candidate: a permutation of control parameter
// indices together with a permutation of the clique's data parameter
// indices.
type Candidate struct {
	Alpha perm.Permutation
	Beta  perm.Permutation
}

// governingIndices returns the governing parameter index of every graph in
// the clique, in clique order.
func (s *Symmetry) governingIndices(clique []int) []int {
	indices := make([]int, 0, len(clique))
	for _, c := range clique {
		indices = append(indices, s.graphs[c].Vertices[0].Index)
	}
	return indices
}

// removeCFGs subtracts the governing indices of the graphs listed in
// allControl from the given sorted index set.
func (s *Symmetry) removeCFGs(set []int, allControl []int) []int {
	out := slices.Clone(set)
	for _, c := range allControl {
		gov := s.graphs[c].Vertices[0].Index
		if i, ok := slices.BinarySearch(out, gov); ok {
			out = slices.Delete(out, i, i+1)
		}
	}
	return out
}

// DataParameters collects the set of non-control parameter indices touched
// by any labeled transition of any graph in the clique: the union of used
// and changed over every edge label, minus every control parameter index.
func (s *Symmetry) DataParameters(clique []int, allControl []int) []int {
	touched := map[int]struct{}{}
	for _, c := range clique {
		g := &s.graphs[c]
		for vi := range g.Vertices {
			v := &g.Vertices[vi]
			eq, ok := s.pbes.Equation(v.Name)
			if !ok {
				continue
			}
			for _, e := range v.Edges {
				for _, label := range e.Labels {
					pv := eq.Summands[label].PredVar
					for _, i := range pv.Used {
						touched[i] = struct{}{}
					}
					for _, i := range pv.Changed {
						touched[i] = struct{}{}
					}
				}
			}
		}
	}
	set := make([]int, 0, len(touched))
	for i := range touched {
		set = append(set, i)
	}
	slices.Sort(set)
	return s.removeCFGs(set, allControl)
}

// CliqueCandidates searches the cartesian product of control parameter
// permutations and data parameter permutations of one clique for pairs
// whose combination complies with every graph in the clique. The sequence
// is lazy and deterministic: control permutations vary in the outer loop,
// both sides in lexicographic successor order.
func (s *Symmetry) CliqueCandidates(clique []int, allControl []int) iter.Seq[Candidate] {
	paramIndices := s.governingIndices(clique)
	D := s.DataParameters(clique, allControl)
	if debug.Candidates() {
		debug.Logf("clique %v: control indices %v, data parameters %v\n", clique, paramIndices, D)
	}
	return func(yield func(Candidate) bool) {
		for alpha := range perm.Group(paramIndices) {
			for beta := range dataPermutations(D) {
				pi := alpha.Concat(beta)
				if debug.Candidates() {
					debug.Logf("trying candidate %s and %s\n", alpha, beta)
				}
				if !s.complies(pi, clique, allControl) {
					continue
				}
				if debug.Candidates() {
					debug.Logf("compliant permutation %s\n", pi)
				}
				if !yield(Candidate{Alpha: alpha, Beta: beta}) {
					return
				}
			}
		}
	}
}

// dataPermutations is the data side of the candidate space. A data set of
// size 0 or 1 admits no non-identity permutation but must still contribute
// one element, the identity, so that the control permutations of the
// clique are tried at all.
func dataPermutations(D []int) iter.Seq[perm.Permutation] {
	if len(D) >= 2 {
		return perm.Group(D)
	}
	return func(yield func(perm.Permutation) bool) {
		yield(perm.Identity())
	}
}

// complies reports whether every graph in the clique complies with pi.
func (s *Symmetry) complies(pi perm.Permutation, clique []int, allControl []int) bool {
	for _, c := range clique {
		if !s.compliesGraph(pi, c, allControl) {
			return false
		}
	}
	return true
}

// compliesGraph checks one graph c against pi: the graph whose governing
// index is pi(governing index of c) must mirror every labeled transition
// of c. Each source label must be matched to a distinct target label whose
// permuted, control-stripped used and changed sets coincide with the
// source's; matches are consumed greedily, first fit. An edge whose target
// labels cannot all be consumed fails the graph.
func (s *Symmetry) compliesGraph(pi perm.Permutation, c int, allControl []int) bool {
	g := &s.graphs[c]
	gov := g.Vertices[0].Index

	target := -1
	for i := range s.graphs {
		if s.graphs[i].Vertices[0].Index == pi.Apply(gov) {
			target = i
			break
		}
	}
	if target < 0 {
		return false
	}
	other := &s.graphs[target]

	for vi := range g.Vertices {
		v := &g.Vertices[vi]
		vOther, ok := other.Vertex(v.ID())
		if !ok {
			continue
		}
		eq, ok := s.pbes.Equation(v.Name)
		if !ok {
			continue
		}
		for ei := range v.Edges {
			e := &v.Edges[ei]
			for oi := range vOther.Edges {
				eOther := &vOther.Edges[oi]
				if e.To != eOther.To {
					continue
				}
				if !s.edgeJustified(pi, eq, e.Labels, eOther.Labels, allControl) {
					if debug.Candidates() {
						debug.Logf("no matching for edge %v -> %v under %s\n", v.ID(), e.To, pi)
					}
					return false
				}
			}
		}
	}
	return true
}

// edgeJustified matches each source label to a remaining target label with
// pi(used') == used and pi(changed') == changed after stripping control
// parameter indices, removing consumed labels. The edge is justified when
// no target label remains.
func (s *Symmetry) edgeJustified(pi perm.Permutation, eq *srf.Equation, labels, labelsOther []int, allControl []int) bool {
	remaining := slices.Clone(labelsOther)
	for _, i := range labels {
		pv := eq.Summands[i].PredVar
		used := s.removeCFGs(pv.Used, allControl)
		changed := s.removeCFGs(pv.Changed, allControl)

		match := -1
		for ri, j := range remaining {
			pvOther := eq.Summands[j].PredVar
			usedOther := s.removeCFGs(pvOther.Used, allControl)
			changedOther := s.removeCFGs(pvOther.Changed, allControl)
			if slices.Equal(pi.Permute(usedOther), used) && slices.Equal(pi.Permute(changedOther), changed) {
				match = ri
				break
			}
		}
		if match >= 0 {
			remaining = slices.Delete(remaining, match, match+1)
		}
	}
	return len(remaining) == 0
}

// CandidateCombine merges the candidates of two cliques: the cartesian
// product filtered to pairs agreeing on the data permutation, each merged
// pair keeping the concatenated control permutations and the shared data
// permutation.
func CandidateCombine(i1, i2 []Candidate) []Candidate {
	var out []Candidate
	for _, a := range i1 {
		for _, b := range i2 {
			if !a.Beta.Equal(b.Beta) {
				continue
			}
			out = append(out, Candidate{Alpha: a.Alpha.Concat(b.Alpha), Beta: a.Beta})
		}
	}
	return out
}

// foldCombine left-folds CandidateCombine across the per-clique candidate
// lists, seeded with the first list. Calling it with no lists is a logic
// defect.
func foldCombine(lists [][]Candidate) []Candidate {
	if len(lists) == 0 {
		panic("pbessym: fold over empty candidate lists")
	}
	acc := lists[0]
	for _, x := range lists[1:] {
		acc = CandidateCombine(acc, x)
	}
	return acc
}
