package srf

import (
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/symlab/pbessym/stategraph"
	"github.com/symlab/pbessym/term"
)

// Model is a loaded input: the equation system together with the control
// flow graphs produced by the external graph builder, and any global
// variable bindings still to be instantiated.
type Model struct {
	PBES    PBES
	Graphs  []stategraph.Graph
	Globals map[string]term.Term
}

type rawModel struct {
	Parameters []rawParameter     `yaml:"parameters"`
	Globals    map[string]string  `yaml:"globals"`
	Init       *rawInst           `yaml:"init"`
	Equations  []rawEquation      `yaml:"equations"`
	Graphs     []stategraph.Graph `yaml:"graphs"`
}

type rawParameter struct {
	Name string `yaml:"name"`
	Sort string `yaml:"sort"`
}

type rawEquation struct {
	Name     string       `yaml:"name"`
	Operator string       `yaml:"operator"`
	Summands []rawSummand `yaml:"summands"`
}

type rawSummand struct {
	Condition string  `yaml:"condition"`
	Next      rawInst `yaml:"next"`
	Used      []int   `yaml:"used"`
	Changed   []int   `yaml:"changed"`
}

type rawInst struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Load reads a model document from r.
func Load(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading model: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML model document.
func Parse(data []byte) (*Model, error) {
	var raw rawModel
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error decoding model: %w", err)
	}

	m := &Model{
		Graphs:  raw.Graphs,
		Globals: map[string]term.Term{},
	}
	for _, p := range raw.Parameters {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter without a name")
		}
		m.PBES.Parameters = append(m.PBES.Parameters, Parameter{Name: p.Name, Sort: p.Sort})
	}
	for name, src := range raw.Globals {
		t, err := term.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("global %s: %w", name, err)
		}
		m.Globals[name] = t
	}
	for _, re := range raw.Equations {
		eq, err := parseEquation(re)
		if err != nil {
			return nil, err
		}
		m.PBES.Equations = append(m.PBES.Equations, eq)
	}
	if raw.Init != nil {
		init, err := parseInst(*raw.Init)
		if err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
		m.PBES.Init = init
	}
	return m, nil
}

func parseEquation(re rawEquation) (Equation, error) {
	if re.Name == "" {
		return Equation{}, fmt.Errorf("equation without a name")
	}
	if re.Operator != "mu" && re.Operator != "nu" {
		return Equation{}, fmt.Errorf("equation %s: operator must be mu or nu, got %q", re.Name, re.Operator)
	}
	eq := Equation{Name: re.Name, Operator: re.Operator}
	for i, rs := range re.Summands {
		cond, err := term.Parse(rs.Condition)
		if err != nil {
			return Equation{}, fmt.Errorf("equation %s, summand %d: %w", re.Name, i, err)
		}
		next, err := parseInst(rs.Next)
		if err != nil {
			return Equation{}, fmt.Errorf("equation %s, summand %d: %w", re.Name, i, err)
		}
		eq.Summands = append(eq.Summands, Summand{
			Condition: cond,
			Variable:  next,
			PredVar: PredicateVariable{
				Used:    indexSet(rs.Used),
				Changed: indexSet(rs.Changed),
			},
		})
	}
	return eq, nil
}

func parseInst(ri rawInst) (PropVarInst, error) {
	if ri.Name == "" {
		return PropVarInst{}, fmt.Errorf("instantiation without a target name")
	}
	inst := PropVarInst{Name: ri.Name}
	for i, src := range ri.Args {
		a, err := term.Parse(src)
		if err != nil {
			return PropVarInst{}, fmt.Errorf("argument %d of %s: %w", i, ri.Name, err)
		}
		inst.Args = append(inst.Args, a)
	}
	return inst, nil
}

func indexSet(s []int) []int {
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}
