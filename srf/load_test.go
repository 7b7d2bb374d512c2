package srf

import (
	"strings"
	"testing"

	"github.com/symlab/pbessym/term"
)

const modelDoc = `
parameters:
  - name: s
    sort: Nat
  - name: t
    sort: Nat
globals:
  dc: "0"
equations:
  - name: X
    operator: mu
    summands:
      - condition: "s == 1 && dc == 0"
        next: { name: X, args: ["2", "t"] }
        used: [0]
        changed: [0]
init:
  name: X
  args: ["1", "dc"]
`

func TestLoad(t *testing.T) {
	m, err := Load(strings.NewReader(modelDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.PBES.Parameters) != 2 {
		t.Fatalf("got %d parameters, want 2", len(m.PBES.Parameters))
	}
	if m.PBES.Parameters[0].Name != "s" || m.PBES.Parameters[0].Sort != "Nat" {
		t.Errorf("parameter 0 = %+v", m.PBES.Parameters[0])
	}
	eq, ok := m.PBES.Equation("X")
	if !ok {
		t.Fatal("no equation X")
	}
	if eq.Operator != "mu" || len(eq.Summands) != 1 {
		t.Fatalf("equation X = %+v", eq)
	}
	pv, err := eq.PredicateVariable(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pv.Used) != 1 || pv.Used[0] != 0 {
		t.Errorf("used = %v", pv.Used)
	}
	if m.PBES.Init.Name != "X" || len(m.PBES.Init.Args) != 2 {
		t.Errorf("init = %+v", m.PBES.Init)
	}
}

func TestInstantiateGlobals(t *testing.T) {
	m, err := Load(strings.NewReader(modelDoc))
	if err != nil {
		t.Fatal(err)
	}
	m.InstantiateGlobals()
	want, err := term.Parse("s == 1 && 0 == 0")
	if err != nil {
		t.Fatal(err)
	}
	got := m.PBES.Equations[0].Summands[0].Condition
	if !got.Equal(want) {
		t.Errorf("condition = %q, want %q", got, want)
	}
	wantArg, err := term.Parse("0")
	if err != nil {
		t.Fatal(err)
	}
	if !m.PBES.Init.Args[1].Equal(wantArg) {
		t.Errorf("init arg = %q, want %q", m.PBES.Init.Args[1], wantArg)
	}
	if len(m.Globals) != 0 {
		t.Errorf("globals not cleared: %v", m.Globals)
	}
}

type loadErrTest struct {
	name string
	doc  string
}

var loadErrTests = []loadErrTest{
	{
		name: "bad operator",
		doc: `
equations:
  - name: X
    operator: max
`,
	},
	{
		name: "bad condition",
		doc: `
equations:
  - name: X
    operator: mu
    summands:
      - condition: "s =="
        next: { name: X }
`,
	},
	{
		name: "missing target name",
		doc: `
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { args: ["1"] }
`,
	},
	{
		name: "unnamed equation",
		doc: `
equations:
  - operator: mu
`,
	},
}

func TestLoadErrors(t *testing.T) {
	for _, tst := range loadErrTests {
		if _, err := Parse([]byte(tst.doc)); err == nil {
			t.Errorf("%s: expected error", tst.name)
		}
	}
}

type unifyErrTest struct {
	name string
	doc  string
}

var unifyErrTests = []unifyErrTest{
	{
		name: "arity mismatch",
		doc: `
parameters:
  - name: s
  - name: t
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: X, args: ["1"] }
`,
	},
	{
		name: "unknown target",
		doc: `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: Y, args: ["1"] }
`,
	},
	{
		name: "duplicate parameter",
		doc: `
parameters:
  - name: s
  - name: s
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: X, args: ["1", "2"] }
`,
	},
	{
		name: "duplicate equation",
		doc: `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
  - name: X
    operator: nu
`,
	},
	{
		name: "used index out of range",
		doc: `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: X, args: ["s"] }
        used: [3]
`,
	},
	{
		name: "init arity mismatch",
		doc: `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
init:
  name: X
  args: ["1", "2"]
`,
	},
}

func TestUnifyParametersErrors(t *testing.T) {
	for _, tst := range unifyErrTests {
		m, err := Parse([]byte(tst.doc))
		if err != nil {
			t.Fatalf("%s: %v", tst.name, err)
		}
		if err := m.UnifyParameters(); err == nil {
			t.Errorf("%s: expected error", tst.name)
		}
	}
}

func TestUnifyParametersOK(t *testing.T) {
	m, err := Load(strings.NewReader(modelDoc))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.UnifyParameters(); err != nil {
		t.Errorf("unify: %v", err)
	}
}
