package pbessym

import (
	"slices"
	"testing"

	"github.com/symlab/pbessym/perm"
)

// swapDoc extended with a data parameter d that both summands use.
const dataDoc = `
parameters:
  - name: s
  - name: t
  - name: d
equations:
  - name: X
    operator: mu
    summands:
      - condition: "s == 1"
        next: { name: X, args: ["2", "t", "d"] }
        used: [0, 2]
        changed: [0]
      - condition: "t == 1"
        next: { name: X, args: ["s", "2", "d"] }
        used: [1, 2]
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

func TestDataParameters(t *testing.T) {
	s := loadFixture(t, dataDoc)
	clique := []int{0, 1}
	got := s.DataParameters(clique, clique)
	if want := []int{2}; !slices.Equal(got, want) {
		t.Errorf("DataParameters = %v, want %v", got, want)
	}

	noData := loadFixture(t, swapDoc)
	if got := noData.DataParameters(clique, clique); len(got) != 0 {
		t.Errorf("DataParameters = %v, want none", got)
	}
}

func TestCliqueCandidates(t *testing.T) {
	for name, doc := range map[string]string{"control only": swapDoc, "with data": dataDoc} {
		t.Run(name, func(t *testing.T) {
			s := loadFixture(t, doc)
			clique := []int{0, 1}
			var got []Candidate
			for cand := range s.CliqueCandidates(clique, clique) {
				got = append(got, cand)
			}
			if len(got) != 1 {
				t.Fatalf("got %d candidates, want 1: %v", len(got), got)
			}
			if want := perm.New(map[int]int{0: 1, 1: 0}); !got[0].Alpha.Equal(want) {
				t.Errorf("Alpha = %v, want %v", got[0].Alpha, want)
			}
			if !got[0].Beta.IsIdentity() {
				t.Errorf("Beta = %v, want identity", got[0].Beta)
			}
		})
	}
}

func TestCliqueCandidatesNonCompliant(t *testing.T) {
	// Drop the data parameter from the second summand's used set; the
	// stripped label signatures no longer line up under the swap.
	s := loadFixture(t, dataDoc)
	s.pbes.Equations[0].Summands[1].PredVar.Used = []int{1}
	clique := []int{0, 1}
	for cand := range s.CliqueCandidates(clique, clique) {
		t.Fatalf("unexpected candidate %v", cand)
	}
}

func TestCandidateCombine(t *testing.T) {
	swap01 := perm.New(map[int]int{0: 1, 1: 0})
	swap23 := perm.New(map[int]int{2: 3, 3: 2})
	swap45 := perm.New(map[int]int{4: 5, 5: 4})
	swap67 := perm.New(map[int]int{6: 7, 7: 6})

	i1 := []Candidate{
		{Alpha: swap01, Beta: perm.Identity()},
		{Alpha: swap01, Beta: swap45},
	}
	i2 := []Candidate{
		{Alpha: swap23, Beta: perm.Identity()},
		{Alpha: swap23, Beta: swap67},
	}

	got := CandidateCombine(i1, i2)
	if len(got) != 1 {
		t.Fatalf("got %d combined candidates, want 1: %v", len(got), got)
	}
	wantAlpha := perm.New(map[int]int{0: 1, 1: 0, 2: 3, 3: 2})
	if !got[0].Alpha.Equal(wantAlpha) {
		t.Errorf("Alpha = %v, want %v", got[0].Alpha, wantAlpha)
	}
	if !got[0].Beta.IsIdentity() {
		t.Errorf("Beta = %v, want identity", got[0].Beta)
	}

	shared := CandidateCombine(
		[]Candidate{{Alpha: swap01, Beta: swap45}},
		[]Candidate{{Alpha: swap23, Beta: swap45}},
	)
	if len(shared) != 1 || !shared[0].Beta.Equal(swap45) {
		t.Errorf("shared beta combine = %v", shared)
	}

	if out := CandidateCombine(i1, nil); len(out) != 0 {
		t.Errorf("combine with empty list = %v", out)
	}
}

func TestFoldCombinePanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	foldCombine(nil)
}
