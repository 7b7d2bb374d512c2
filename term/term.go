// Package term represents the data expressions occurring in a PBES:
// summand conditions and instantiation arguments. Terms are parsed with the
// expr language parser and compared syntactically on their normalized
// rendering.
package term

import (
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Term is an immutable expression over parameter names.
type Term struct {
	src  string
	norm string
}

// Parse reads a term from expr syntax.
func Parse(src string) (Term, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return Term{}, fmt.Errorf("parse term %q: %w", src, err)
	}
	return Term{src: src, norm: tree.Node.String()}, nil
}

// String returns the normalized rendering of the term.
func (t Term) String() string {
	return t.norm
}

// Source returns the text the term was parsed from.
func (t Term) Source() string {
	return t.src
}

// Equal reports syntactic equality up to normalization.
func (t Term) Equal(u Term) bool {
	return t.norm == u.norm
}

// IsZero reports whether the term is unset.
func (t Term) IsZero() bool {
	return t.src == "" && t.norm == ""
}

// Rename substitutes identifiers simultaneously according to sub and
// returns the resulting term. The receiver is not modified.
func (t Term) Rename(sub map[string]string) Term {
	if len(sub) == 0 || t.IsZero() {
		return t
	}
	tree, err := parser.Parse(t.src)
	if err != nil {
		// The source parsed when the term was built.
		panic(fmt.Sprintf("term: reparse of %q failed: %v", t.src, err))
	}
	ast.Walk(&tree.Node, &renamer{sub: sub})
	s := tree.Node.String()
	return Term{src: s, norm: s}
}

// Substitute replaces every identifier occurring in sub with the mapped
// term, simultaneously.
func (t Term) Substitute(sub map[string]Term) Term {
	if len(sub) == 0 || t.IsZero() {
		return t
	}
	tree, err := parser.Parse(t.src)
	if err != nil {
		panic(fmt.Sprintf("term: reparse of %q failed: %v", t.src, err))
	}
	ast.Walk(&tree.Node, &substituter{sub: sub})
	s := tree.Node.String()
	return Term{src: s, norm: s}
}

type renamer struct {
	sub map[string]string
}

func (r *renamer) Visit(node *ast.Node) {
	id, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}
	if to, ok := r.sub[id.Value]; ok {
		ast.Patch(node, &ast.IdentifierNode{Value: to})
	}
}

type substituter struct {
	sub map[string]Term
}

func (s *substituter) Visit(node *ast.Node) {
	id, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}
	rep, ok := s.sub[id.Value]
	if !ok {
		return
	}
	tree, err := parser.Parse(rep.src)
	if err != nil {
		panic(fmt.Sprintf("term: reparse of %q failed: %v", rep.src, err))
	}
	ast.Patch(node, tree.Node)
}
