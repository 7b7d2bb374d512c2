// Package pbessym discovers structural symmetries of a parameterised
// boolean equation system: permutations of the unified parameter indices
// that leave the system syntactically invariant. Candidates are derived
// from per-parameter control flow graphs, pruned by pairwise and
// clique-level compatibility checks, combined across cliques and finally
// verified against every summand of every equation.
package pbessym

import (
	"fmt"
	"slices"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/symlab/pbessym/debug"
	"github.com/symlab/pbessym/perm"
	"github.com/symlab/pbessym/srf"
	"github.com/symlab/pbessym/stategraph"
	"github.com/symlab/pbessym/term"
)

// State is the phase of a symmetry run.
type State int

const (
	StateInit State = iota
	StatePreprocessed
	StateCliquesComputed
	StateCandidatesEnumerated
	StateVerified
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePreprocessed:
		return "preprocessed"
	case StateCliquesComputed:
		return "cliques-computed"
	case StateCandidatesEnumerated:
		return "candidates-enumerated"
	case StateVerified:
		return "verified"
	case StateExhausted:
		return "exhausted"
	}
	return "<unknown state>"
}

// Symmetry drives symmetry discovery over a preprocessed model. The search
// is single-threaded and deterministic: lexicographic successor order for
// permutations, greedy clique order, left-fold combination order.
type Symmetry struct {
	pbes   *srf.PBES
	graphs []stategraph.Graph
	state  State

	// Logf, when set, receives run narration.
	Logf func(format string, args ...any)
}

// New preprocesses the model (global-variable instantiation, parameter
// unification, graph validation) and returns a Symmetry ready to run. A
// model that cannot be unified is a fatal error.
func New(m *srf.Model) (*Symmetry, error) {
	m.InstantiateGlobals()
	if err := m.UnifyParameters(); err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	s := &Symmetry{
		pbes:   &m.PBES,
		graphs: m.Graphs,
		state:  StateInit,
	}
	if err := s.validateGraphs(); err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	s.state = StatePreprocessed
	return s, nil
}

// State returns the current run phase.
func (s *Symmetry) State() State {
	return s.state
}

// PBES returns the preprocessed equation system.
func (s *Symmetry) PBES() *srf.PBES {
	return s.pbes
}

// Run enumerates combined candidate permutations and verifies each in
// turn, stopping at the first verified symmetry. It returns the found
// permutation and whether one was found.
func (s *Symmetry) Run() (perm.Permutation, bool) {
	cliques := s.Cliques()
	s.state = StateCliquesComputed
	s.logf("computed %d cliques", len(cliques))

	if len(cliques) == 0 {
		s.state = StateExhausted
		return perm.Permutation{}, false
	}

	var allControl []int
	for _, clique := range cliques {
		allControl = append(allControl, clique...)
	}

	candidates := make([][]Candidate, 0, len(cliques))
	for _, clique := range cliques {
		var cs []Candidate
		for cand := range s.CliqueCandidates(clique, allControl) {
			cs = append(cs, cand)
		}
		s.logf("clique %v has %d compliant candidates", clique, len(cs))
		candidates = append(candidates, cs)
	}
	s.state = StateCandidatesEnumerated

	for _, cand := range foldCombine(candidates) {
		pi := cand.Alpha.Concat(cand.Beta)
		s.logf("checking permutation: %s", pi)
		if s.symcheck(pi) {
			s.logf("found symmetry: %s", pi)
			s.state = StateVerified
			return pi, true
		}
	}
	s.state = StateExhausted
	return perm.Permutation{}, false
}

// CheckPermutation verifies a single permutation directly, bypassing
// candidate enumeration.
func (s *Symmetry) CheckPermutation(pi perm.Permutation) bool {
	return s.symcheck(pi)
}

// symcheck syntactically verifies that pi is a symmetry: every summand of
// every equation, with parameter occurrences substituted through the
// permuted parameter list and instantiation arguments reordered by pi,
// must equal some summand of the same-named equation.
func (s *Symmetry) symcheck(pi perm.Permutation) bool {
	arity := len(s.pbes.Parameters)
	for from, to := range pi.Mapping() {
		if from < 0 || from >= arity || to < 0 || to >= arity {
			return false
		}
	}

	sub := map[string]string{}
	for i, p := range s.pbes.Parameters {
		j := pi.Apply(i)
		if j != i {
			sub[p.Name] = s.pbes.Parameters[j].Name
		}
	}

	for ei := range s.pbes.Equations {
		eq := &s.pbes.Equations[ei]
		for si := range eq.Summands {
			sum := &eq.Summands[si]
			cond := sum.Condition.Rename(sub)
			inst := permuteInst(sum.Variable, sub, pi)

			matched := false
			for oi := range eq.Summands {
				other := &eq.Summands[oi]
				if cond.Equal(other.Condition) && inst.Equal(other.Variable) {
					matched = true
					break
				}
			}
			if !matched {
				if debug.Symcheck() {
					s.logUnmatched(eq, cond, inst)
				}
				return false
			}
		}
	}
	return true
}

// permuteInst applies the parameter substitution inside every argument and
// then reorders the arguments: the i-th argument moves to position pi(i).
func permuteInst(p srf.PropVarInst, sub map[string]string, pi perm.Permutation) srf.PropVarInst {
	args := make([]term.Term, len(p.Args))
	for i, a := range p.Args {
		args[pi.Apply(i)] = a.Rename(sub)
	}
	return srf.PropVarInst{Name: p.Name, Args: args}
}

// logUnmatched traces a failed summand match, diffing the permuted
// condition against each summand of the equation.
func (s *Symmetry) logUnmatched(eq *srf.Equation, cond term.Term, inst srf.PropVarInst) {
	debug.Logf("no match in equation %s for condition %s with %s\n", eq.Name, cond, inst)
	dmp := diffmatchpatch.New()
	for si := range eq.Summands {
		diffs := dmp.DiffMain(eq.Summands[si].Condition.String(), cond.String(), false)
		debug.Logf("  summand %d: %s\n", si, dmp.DiffPrettyText(diffs))
	}
}

// validateGraphs checks the externally supplied control flow graphs
// against the equation system: non-empty vertex sets, one governing index
// per graph within the parameter list, edges between known vertices, and
// labels within the owning equation's summands. Labels are normalized to
// sorted sets.
func (s *Symmetry) validateGraphs() error {
	arity := len(s.pbes.Parameters)
	for gi := range s.graphs {
		g := &s.graphs[gi]
		gov, err := g.VariableIndex()
		if err != nil {
			return fmt.Errorf("graph %d: %w", gi, err)
		}
		if gov < 0 || gov >= arity {
			return fmt.Errorf("graph %d: governing index %d out of range", gi, gov)
		}
		for vi := range g.Vertices {
			v := &g.Vertices[vi]
			if v.Index != gov {
				return fmt.Errorf("graph %d: vertex %s@%s has index %d, want %d", gi, v.Name, v.Value, v.Index, gov)
			}
			eq, ok := s.pbes.Equation(v.Name)
			if !ok {
				return fmt.Errorf("graph %d: vertex references unknown equation %s", gi, v.Name)
			}
			for ei := range v.Edges {
				e := &v.Edges[ei]
				e.Labels = normalizeLabels(e.Labels)
				if _, ok := g.Vertex(e.To); !ok {
					return fmt.Errorf("graph %d: edge from %s@%s to unknown vertex %s@%s",
						gi, v.Name, v.Value, e.To.Name, e.To.Value)
				}
				for _, label := range e.Labels {
					if label < 0 || label >= len(eq.Summands) {
						return fmt.Errorf("graph %d: edge label %d out of range for equation %s", gi, label, eq.Name)
					}
				}
			}
		}
	}
	return nil
}

func normalizeLabels(labels []int) []int {
	out := slices.Clone(labels)
	slices.Sort(out)
	return slices.Compact(out)
}

func (s *Symmetry) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}
