// Package graph implements a directed, weighted graph keyed by string node IDs.
//
// Nodes and edges are stored in slices for cache-friendly traversal, with maps
// for O(1) lookup of a node index and of the edge between an ordered node pair.
// A Graph is not safe for concurrent mutation; once built it may be read from
// any number of goroutines.
package graph

import "fmt"

// Edge is a directed edge expressed in node indices.
type Edge struct {
	From   int
	To     int
	Weight float64
}

type edgeKey struct {
	from, to int
}

// Graph is a directed graph with at most one edge per ordered node pair.
type Graph struct {
	nodes       []string
	nodeToIndex map[string]int

	edges     []Edge
	edgeIndex map[edgeKey]int
	adjacency [][]int // node index -> outgoing edge indices
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodeToIndex: make(map[string]int),
		edgeIndex:   make(map[edgeKey]int),
	}
}

// AddNode adds a node if it is not already present and returns its index.
func (g *Graph) AddNode(id string) int {
	if idx, exists := g.nodeToIndex[id]; exists {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.nodeToIndex[id] = idx
	g.adjacency = append(g.adjacency, nil)
	return idx
}

// AddEdge creates the edge from -> to, or overwrites its weight if it exists.
// Both endpoints are added as nodes when missing.
func (g *Graph) AddEdge(from, to string, weight float64) {
	fromIndex := g.AddNode(from)
	toIndex := g.AddNode(to)

	key := edgeKey{fromIndex, toIndex}
	if edgeIdx, exists := g.edgeIndex[key]; exists {
		g.edges[edgeIdx].Weight = weight
		return
	}

	edgeIdx := len(g.edges)
	g.edges = append(g.edges, Edge{From: fromIndex, To: toIndex, Weight: weight})
	g.edgeIndex[key] = edgeIdx
	g.adjacency[fromIndex] = append(g.adjacency[fromIndex], edgeIdx)
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeToIndex[id]
	return ok
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.Weight(from, to)
	return ok
}

// Weight returns the weight of the edge from -> to.
func (g *Graph) Weight(from, to string) (float64, bool) {
	fromIndex, ok := g.nodeToIndex[from]
	if !ok {
		return 0, false
	}
	toIndex, ok := g.nodeToIndex[to]
	if !ok {
		return 0, false
	}
	edgeIdx, ok := g.edgeIndex[edgeKey{fromIndex, toIndex}]
	if !ok {
		return 0, false
	}
	return g.edges[edgeIdx].Weight, true
}

// Index returns the index of node id.
func (g *Graph) Index(id string) (int, bool) {
	idx, ok := g.nodeToIndex[id]
	return idx, ok
}

// Node returns the ID of the node at index i. It panics if i is out of range.
func (g *Graph) Node(i int) string {
	return g.nodes[i]
}

// Nodes returns a copy of the node IDs in insertion order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// OutEdges returns a copy of the edges leaving node index i, in insertion order.
func (g *Graph) OutEdges(i int) []Edge {
	out := make([]Edge, len(g.adjacency[i]))
	for j, edgeIdx := range g.adjacency[i] {
		out[j] = g.edges[edgeIdx]
	}
	return out
}

// Successors returns the IDs of the nodes reachable over one edge from id.
func (g *Graph) Successors(id string) []string {
	idx, ok := g.nodeToIndex[id]
	if !ok {
		return nil
	}
	succ := make([]string, len(g.adjacency[idx]))
	for j, edgeIdx := range g.adjacency[idx] {
		succ[j] = g.nodes[g.edges[edgeIdx].To]
	}
	return succ
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph(nodes=%d, edges=%d)", len(g.nodes), len(g.edges))
}
