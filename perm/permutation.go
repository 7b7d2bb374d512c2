// Package perm provides sparse permutations of parameter indices and
// enumeration of permutation groups.
package perm

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Permutation is a finite bijection on indices, stored sparsely: indices
// absent from the mapping are implicit fixed points. The zero value is the
// identity permutation.
type Permutation struct {
	mapping map[int]int
}

// New builds a permutation from an explicit mapping. The mapping, restricted
// to its keys, must be a bijection on that key set.
func New(mapping map[int]int) Permutation {
	m := make(map[int]int, len(mapping))
	maps.Copy(m, mapping)
	return Permutation{mapping: m}
}

// Identity returns the empty permutation.
func Identity() Permutation {
	return Permutation{}
}

// Parse reads a permutation from text of the shape "i->j, k->l", optionally
// wrapped in brackets. Each source index may appear at most once.
func Parse(input string) (Permutation, error) {
	s := strings.TrimSpace(input)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}
	mapping := map[int]int{}
	if strings.TrimSpace(s) == "" {
		return Permutation{mapping: mapping}, nil
	}
	for tok := range strings.SplitSeq(s, ",") {
		from, to, ok := strings.Cut(tok, "->")
		if !ok {
			return Permutation{}, fmt.Errorf("%w: %q", ErrFormat, strings.TrimSpace(tok))
		}
		f, err := strconv.ParseUint(strings.TrimSpace(from), 10, 64)
		if err != nil {
			return Permutation{}, fmt.Errorf("%w: %q", ErrFormat, strings.TrimSpace(tok))
		}
		t, err := strconv.ParseUint(strings.TrimSpace(to), 10, 64)
		if err != nil {
			return Permutation{}, fmt.Errorf("%w: %q", ErrFormat, strings.TrimSpace(tok))
		}
		if _, dup := mapping[int(f)]; dup {
			return Permutation{}, fmt.Errorf("%w: multiple mappings for %d", ErrFormat, f)
		}
		mapping[int(f)] = int(t)
	}
	return Permutation{mapping: mapping}, nil
}

// Apply returns the image of i, or i itself when i is a fixed point.
func (p Permutation) Apply(i int) int {
	if j, ok := p.mapping[i]; ok {
		return j
	}
	return i
}

// Len returns the number of explicit entries.
func (p Permutation) Len() int {
	return len(p.mapping)
}

// Mapping returns a copy of the explicit entries.
func (p Permutation) Mapping() map[int]int {
	m := make(map[int]int, len(p.mapping))
	maps.Copy(m, p.mapping)
	return m
}

// IsIdentity reports whether every explicit entry maps to itself.
func (p Permutation) IsIdentity() bool {
	for k, v := range p.mapping {
		if k != v {
			return false
		}
	}
	return true
}

// Permute applies the permutation to every element of s and returns the
// resulting set, sorted.
func (p Permutation) Permute(s []int) []int {
	out := make([]int, 0, len(s))
	for _, i := range s {
		out = append(out, p.Apply(i))
	}
	slices.Sort(out)
	return out
}

// Concat rewrites every target of p through other and then unions in the
// entries of other for keys p does not mention. The two key sets must be
// disjoint; a collision is a logic defect and panics.
func (p Permutation) Concat(other Permutation) Permutation {
	m := make(map[int]int, len(p.mapping)+len(other.mapping))
	for k, v := range p.mapping {
		m[k] = other.Apply(v)
	}
	for k, v := range other.mapping {
		if _, ok := p.mapping[k]; ok {
			panic(fmt.Sprintf("perm: concat with colliding mapping for %d", k))
		}
		m[k] = v
	}
	return Permutation{mapping: m}
}

// Equal reports whether the explicit mappings coincide.
func (p Permutation) Equal(other Permutation) bool {
	return maps.Equal(p.mapping, other.mapping)
}

// String renders the permutation as "[i->j, k->l]" with sources in
// increasing order.
func (p Permutation) String() string {
	keys := slices.Sorted(maps.Keys(p.mapping))
	var b strings.Builder
	b.WriteByte('[')
	for n, k := range keys {
		if n > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d->%d", k, p.mapping[k])
	}
	b.WriteByte(']')
	return b.String()
}
