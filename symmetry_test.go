package pbessym

import (
	"testing"

	"github.com/symlab/pbessym/perm"
	"github.com/symlab/pbessym/srf"
)

// A two-parameter system whose two summands are parameter-swapped
// renamings of each other, with one control flow graph per parameter.
const swapDoc = `
parameters:
  - name: s
    sort: Nat
  - name: t
    sort: Nat
equations:
  - name: X
    operator: mu
    summands:
      - condition: "s == 1"
        next: { name: X, args: ["2", "t"] }
        used: [0]
        changed: [0]
      - condition: "t == 1"
        next: { name: X, args: ["s", "2"] }
        used: [1]
        changed: [1]
graphs:
  - vertices:
      - name: X
        value: "1"
        index: 0
        edges:
          - to: { name: X, value: "2" }
            labels: [0]
      - name: X
        value: "2"
        index: 0
  - vertices:
      - name: X
        value: "1"
        index: 1
        edges:
          - to: { name: X, value: "2" }
            labels: [1]
      - name: X
        value: "2"
        index: 1
init:
  name: X
  args: ["1", "1"]
`

// Like swapDoc, but the second summand's condition breaks the symmetry.
// The graph shapes still agree, so the swap survives until symcheck.
const skewedDoc = `
parameters:
  - name: s
    sort: Nat
  - name: t
    sort: Nat
equations:
  - name: X
    operator: mu
    summands:
      - condition: "s == 1"
        next: { name: X, args: ["2", "t"] }
        used: [0]
        changed: [0]
      - condition: "t == 3"
        next: { name: X, args: ["s", "2"] }
        used: [1]
        changed: [1]
graphs:
  - vertices:
      - name: X
        value: "1"
        index: 0
        edges:
          - to: { name: X, value: "2" }
            labels: [0]
      - name: X
        value: "2"
        index: 0
  - vertices:
      - name: X
        value: "1"
        index: 1
        edges:
          - to: { name: X, value: "2" }
            labels: [1]
      - name: X
        value: "2"
        index: 1
`

func loadFixture(t *testing.T, doc string) *Symmetry {
	t.Helper()
	m, err := srf.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(m)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunFindsSwap(t *testing.T) {
	s := loadFixture(t, swapDoc)
	if s.State() != StatePreprocessed {
		t.Fatalf("state after New = %v", s.State())
	}
	pi, ok := s.Run()
	if !ok {
		t.Fatal("no symmetry found")
	}
	want := perm.New(map[int]int{0: 1, 1: 0})
	if !pi.Equal(want) {
		t.Errorf("found %v, want %v", pi, want)
	}
	if s.State() != StateVerified {
		t.Errorf("state after Run = %v", s.State())
	}
}

func TestRunExhaustsSkewedSystem(t *testing.T) {
	s := loadFixture(t, skewedDoc)
	pi, ok := s.Run()
	if ok {
		t.Fatalf("unexpected symmetry %v", pi)
	}
	if s.State() != StateExhausted {
		t.Errorf("state after Run = %v", s.State())
	}
}

func TestRunWithoutGraphs(t *testing.T) {
	s := loadFixture(t, `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: X, args: ["s"] }
`)
	if _, ok := s.Run(); ok {
		t.Error("symmetry found without any control flow graphs")
	}
	if s.State() != StateExhausted {
		t.Errorf("state = %v", s.State())
	}
}

func TestCheckPermutation(t *testing.T) {
	s := loadFixture(t, swapDoc)
	swap := perm.New(map[int]int{0: 1, 1: 0})
	if !s.CheckPermutation(swap) {
		t.Error("swap should verify")
	}
	if !s.CheckPermutation(perm.Identity()) {
		t.Error("identity should verify")
	}

	skewed := loadFixture(t, skewedDoc)
	if skewed.CheckPermutation(swap) {
		t.Error("swap should not verify on the skewed system")
	}
}

func TestCheckPermutationOutOfRange(t *testing.T) {
	s := loadFixture(t, swapDoc)
	if s.CheckPermutation(perm.New(map[int]int{0: 5, 5: 0})) {
		t.Error("out-of-range permutation should not verify")
	}
}

func TestNewRejectsBadModels(t *testing.T) {
	docs := map[string]string{
		"arity mismatch": `
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
		"graph without vertices": `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: X, args: ["s"] }
graphs:
  - vertices: []
`,
		"graph label out of range": `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: X, args: ["s"] }
graphs:
  - vertices:
      - name: X
        value: "1"
        index: 0
        edges:
          - to: { name: X, value: "1" }
            labels: [7]
`,
		"graph unknown equation": `
parameters:
  - name: s
equations:
  - name: X
    operator: mu
    summands:
      - condition: "true"
        next: { name: X, args: ["s"] }
graphs:
  - vertices:
      - name: Y
        value: "1"
        index: 0
`,
	}
	for name, doc := range docs {
		m, err := srf.Parse([]byte(doc))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, err := New(m); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
