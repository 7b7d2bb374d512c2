// Package srf models a parameterised boolean equation system in simple
// recursive form, where every equation is a set of summands and, after
// parameter unification, all equations range over one shared parameter
// list.
package srf

import (
	"fmt"

	"github.com/symlab/pbessym/term"
)

// Parameter is a formal parameter of the unified parameter list.
type Parameter struct {
	Name string
	Sort string
}

// PropVarInst is a call to an equation with concrete argument terms.
type PropVarInst struct {
	Name string
	Args []term.Term
}

// Equal reports term-for-term equality of two instantiations.
func (p PropVarInst) Equal(q PropVarInst) bool {
	if p.Name != q.Name || len(p.Args) != len(q.Args) {
		return false
	}
	for i := range p.Args {
		if !p.Args[i].Equal(q.Args[i]) {
			return false
		}
	}
	return true
}

func (p PropVarInst) String() string {
	s := p.Name + "("
	for i, a := range p.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// PredicateVariable carries the parameter indices a summand's call reads
// (Used) and writes (Changed). Both are sorted sets.
type PredicateVariable struct {
	Used    []int
	Changed []int
}

// Summand is one clause of an equation: a condition guarding a call to
// another equation.
type Summand struct {
	Condition term.Term
	Variable  PropVarInst
	PredVar   PredicateVariable
}

// Equation is a fixpoint equation in simple recursive form.
type Equation struct {
	Name     string
	Operator string // mu or nu
	Summands []Summand
}

// PredicateVariable returns the read/write annotation of the summand with
// the given label.
func (e *Equation) PredicateVariable(label int) (PredicateVariable, error) {
	if label < 0 || label >= len(e.Summands) {
		return PredicateVariable{}, fmt.Errorf("equation %s has no summand %d", e.Name, label)
	}
	return e.Summands[label].PredVar, nil
}

// PBES is an equation system over one unified parameter list.
type PBES struct {
	Parameters []Parameter
	Equations  []Equation
	Init       PropVarInst
}

// Equation returns the equation with the given name, if present.
func (p *PBES) Equation(name string) (*Equation, bool) {
	for i := range p.Equations {
		if p.Equations[i].Name == name {
			return &p.Equations[i], true
		}
	}
	return nil, false
}

// ParameterNames returns the names of the unified parameters in order.
func (p *PBES) ParameterNames() []string {
	names := make([]string, len(p.Parameters))
	for i, par := range p.Parameters {
		names[i] = par.Name
	}
	return names
}
