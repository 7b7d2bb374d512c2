package pbessym

import (
	"slices"

	"github.com/symlab/pbessym/debug"
	"github.com/symlab/pbessym/stategraph"
)

// sizePair is the (changed-count, used-count) signature of one summand
// label on an edge.
type sizePair struct {
	changed int
	used    int
}

// Cliques partitions the control flow graphs into cliques: maximal groups
// of pairwise compatible graphs. The pass is greedy: the first graph not
// yet assigned seeds a clique and every later compatible graph joins it.
// Compatibility is symmetric, so it is only checked in one direction.
// Cliques of size 1 are discarded. The result may miss larger cliques
// reachable from a different seed order.
func (s *Symmetry) Cliques() [][]int {
	var cliques [][]int
	for i := range s.graphs {
		assigned := slices.ContainsFunc(cliques, func(clique []int) bool {
			return slices.Contains(clique, i)
		})
		if assigned {
			continue
		}

		clique := []int{i}
		for j := i + 1; j < len(s.graphs); j++ {
			if s.compatible(i, j) {
				clique = append(clique, j)
			}
		}
		if len(clique) > 1 {
			if debug.Cliques() {
				debug.Logf("clique %v with governing indices %v\n", clique, s.governingIndices(clique))
			}
			cliques = append(cliques, clique)
		}
	}
	return cliques
}

// compatible reports whether graphs i and j have coinciding vertex sets
// and, for every ordered vertex pair present in both, agreeing edge
// existence, label counts and size multisets. Any mismatch short-circuits.
func (s *Symmetry) compatible(i, j int) bool {
	c, cp := &s.graphs[i], &s.graphs[j]
	if debug.Cliques() {
		debug.Logf("checking compatible(%d, %d)\n", i, j)
	}

	if !vertexSetsCompatible(c, cp) {
		if debug.Cliques() {
			debug.Logf("vertex sets of %d and %d don't match\n", i, j)
		}
		return false
	}

	for vi := range c.Vertices {
		v := &c.Vertices[vi]
		vOther, ok := cp.Vertex(v.ID())
		if !ok {
			continue
		}
		for wi := range c.Vertices {
			w := &c.Vertices[wi]
			wOther, ok := cp.Vertex(w.ID())
			if !ok {
				continue
			}

			e, hasEdge := v.Edge(w.ID())
			eOther, hasOther := vOther.Edge(wOther.ID())
			if hasEdge != hasOther {
				if debug.Cliques() {
					debug.Logf("edge %v -> %v exists in only one of %d, %d\n", v.ID(), w.ID(), i, j)
				}
				return false
			}
			if hasEdge && len(e.Labels) != len(eOther.Labels) {
				if debug.Cliques() {
					debug.Logf("edge %v -> %v has %d and %d labels\n", v.ID(), w.ID(), len(e.Labels), len(eOther.Labels))
				}
				return false
			}
			if !slices.Equal(s.sizes(v, w.ID()), s.sizes(vOther, wOther.ID())) {
				if debug.Cliques() {
					debug.Logf("edge %v -> %v has different sizes in %d and %d\n", v.ID(), w.ID(), i, j)
				}
				return false
			}
		}
	}
	return true
}

// vertexSetsCompatible reports whether the two graphs have the same
// vertices under (name, value) identity, in both directions.
func vertexSetsCompatible(c, cp *stategraph.Graph) bool {
	if len(c.Vertices) != len(cp.Vertices) {
		return false
	}
	for vi := range c.Vertices {
		if _, ok := cp.Vertex(c.Vertices[vi].ID()); !ok {
			return false
		}
	}
	for vi := range cp.Vertices {
		if _, ok := c.Vertex(cp.Vertices[vi].ID()); !ok {
			return false
		}
	}
	return true
}

// sizes returns the multiset of (changed-count, used-count) pairs over the
// labels of the edge from v to the given vertex, sorted. An absent edge
// yields an empty multiset.
func (s *Symmetry) sizes(v *stategraph.Vertex, to stategraph.VertexID) []sizePair {
	e, ok := v.Edge(to)
	if !ok {
		return nil
	}
	eq, ok := s.pbes.Equation(v.Name)
	if !ok {
		return nil
	}
	result := make([]sizePair, 0, len(e.Labels))
	for _, label := range e.Labels {
		pv := eq.Summands[label].PredVar
		result = append(result, sizePair{changed: len(pv.Changed), used: len(pv.Used)})
	}
	slices.SortFunc(result, func(a, b sizePair) int {
		if a.changed != b.changed {
			return a.changed - b.changed
		}
		return a.used - b.used
	})
	return result
}
