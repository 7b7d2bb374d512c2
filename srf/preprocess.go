package srf

import (
	"fmt"

	"github.com/symlab/pbessym/term"
)

// InstantiateGlobals substitutes the model's global-variable bindings into
// every condition and instantiation argument, and clears the bindings.
func (m *Model) InstantiateGlobals() {
	if len(m.Globals) == 0 {
		return
	}
	for ei := range m.PBES.Equations {
		eq := &m.PBES.Equations[ei]
		for si := range eq.Summands {
			s := &eq.Summands[si]
			s.Condition = s.Condition.Substitute(m.Globals)
			for ai := range s.Variable.Args {
				s.Variable.Args[ai] = s.Variable.Args[ai].Substitute(m.Globals)
			}
		}
	}
	for ai := range m.PBES.Init.Args {
		m.PBES.Init.Args[ai] = m.PBES.Init.Args[ai].Substitute(m.Globals)
	}
	m.Globals = map[string]term.Term{}
}

// UnifyParameters checks that the system is in simple recursive form over
// one shared parameter list: the parameters and equations are named
// uniquely, every
// instantiation targets an existing equation, and every instantiation
// carries exactly one argument per unified parameter. A violation is fatal
// for the run.
func (m *Model) UnifyParameters() error {
	arity := len(m.PBES.Parameters)
	seenParams := map[string]bool{}
	for _, p := range m.PBES.Parameters {
		// Renaming under a permutation keys on parameter names, so they
		// must be distinct.
		if seenParams[p.Name] {
			return fmt.Errorf("cannot unify parameters: duplicate parameter %s", p.Name)
		}
		seenParams[p.Name] = true
	}
	seen := map[string]bool{}
	for _, eq := range m.PBES.Equations {
		if seen[eq.Name] {
			return fmt.Errorf("cannot unify parameters: duplicate equation %s", eq.Name)
		}
		seen[eq.Name] = true
	}
	for _, eq := range m.PBES.Equations {
		for i, s := range eq.Summands {
			if _, ok := m.PBES.Equation(s.Variable.Name); !ok {
				return fmt.Errorf("equation %s, summand %d: no equation named %s", eq.Name, i, s.Variable.Name)
			}
			if len(s.Variable.Args) != arity {
				return fmt.Errorf("equation %s, summand %d: instantiation of %s has %d arguments, want %d",
					eq.Name, i, s.Variable.Name, len(s.Variable.Args), arity)
			}
			for _, idx := range s.PredVar.Used {
				if idx < 0 || idx >= arity {
					return fmt.Errorf("equation %s, summand %d: used index %d out of range", eq.Name, i, idx)
				}
			}
			for _, idx := range s.PredVar.Changed {
				if idx < 0 || idx >= arity {
					return fmt.Errorf("equation %s, summand %d: changed index %d out of range", eq.Name, i, idx)
				}
			}
		}
	}
	if m.PBES.Init.Name != "" {
		if _, ok := m.PBES.Equation(m.PBES.Init.Name); !ok {
			return fmt.Errorf("init: no equation named %s", m.PBES.Init.Name)
		}
		if len(m.PBES.Init.Args) != arity {
			return fmt.Errorf("init: %d arguments, want %d", len(m.PBES.Init.Args), arity)
		}
	}
	return nil
}
