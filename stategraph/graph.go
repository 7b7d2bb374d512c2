// Package stategraph holds the per-parameter control-flow graphs consumed
// by the symmetry search. The graphs are produced by an external
// static-analysis pass; this package only carries them, read-only.
package stategraph

import "errors"

// ErrNoVertices indicates a control-flow graph without vertices, which has
// no governing parameter index.
var ErrNoVertices = errors.New("no vertices in control flow graph")

// VertexID identifies a vertex by its equation name and parameter value.
type VertexID struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Edge is a transition to another vertex, labeled with the indices of the
// equation summands that realize it.
type Edge struct {
	To     VertexID `yaml:"to"`
	Labels []int    `yaml:"labels"`
}

// Vertex is an (equation, value) pair of the graph's governing parameter.
// Index is the governing parameter's index in the unified parameter list.
type Vertex struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Index int    `yaml:"index"`
	Edges []Edge `yaml:"edges"`
}

// ID returns the vertex identity.
func (v *Vertex) ID() VertexID {
	return VertexID{Name: v.Name, Value: v.Value}
}

// Edge returns the outgoing edge to the given vertex, if present.
func (v *Vertex) Edge(to VertexID) (*Edge, bool) {
	for i := range v.Edges {
		if v.Edges[i].To == to {
			return &v.Edges[i], true
		}
	}
	return nil, false
}

// Graph is the control-flow graph of a single control parameter.
type Graph struct {
	Vertices []Vertex `yaml:"vertices"`
}

// VariableIndex returns the index of the parameter governing this graph.
// Every vertex carries the same index.
func (g *Graph) VariableIndex() (int, error) {
	if len(g.Vertices) == 0 {
		return 0, ErrNoVertices
	}
	return g.Vertices[0].Index, nil
}

// Vertex returns the vertex with the given identity, if present.
func (g *Graph) Vertex(id VertexID) (*Vertex, bool) {
	for i := range g.Vertices {
		if g.Vertices[i].ID() == id {
			return &g.Vertices[i], true
		}
	}
	return nil, false
}
