package arbitrage

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/defistate/defistate-arb/bitset"
	"github.com/defistate/defistate-arb/graph"
)

// noPredecessor marks a node that was never relaxed.
const noPredecessor = -1

// detectState is the per-source scratch space of a Bellman-Ford run.
type detectState struct {
	dist []float64
	pred []int
	seen bitset.BitSet
}

// Detector finds negative cycles in a line graph with a Bellman-Ford relaxation
// per source. It never mutates the graph and is safe for concurrent use.
type Detector struct {
	line  *graph.Graph
	edges []graph.Edge

	states sync.Pool
}

// NewDetector prepares a detector over line. The graph must not be modified afterwards.
func NewDetector(line *graph.Graph) *Detector {
	d := &Detector{
		line:  line,
		edges: line.Edges(),
	}
	n := line.NodeCount()
	d.states.New = func() any {
		return &detectState{
			dist: make([]float64, n),
			pred: make([]int, n),
			seen: bitset.New(n),
		}
	}
	return d
}

// Detect runs detection from the line-graph node source.
func (d *Detector) Detect(source string) ([]Cycle, error) {
	idx, ok := d.line.Index(source)
	if !ok {
		return nil, fmt.Errorf("source %q is not a line graph node", source)
	}
	return d.DetectFrom(idx), nil
}

// DetectAll runs detection from every line-graph node in turn. Cycles reachable
// from several sources are reported once per source.
func (d *Detector) DetectAll() []Cycle {
	var cycles []Cycle
	for i := 0; i < d.line.NodeCount(); i++ {
		cycles = append(cycles, d.DetectFrom(i)...)
	}
	return cycles
}

// DetectFrom relaxes every edge for (V-1) rounds starting at source, then reports
// one cycle per edge that can still be relaxed.
func (d *Detector) DetectFrom(source int) []Cycle {
	n := d.line.NodeCount()
	if source < 0 || source >= n {
		return nil
	}

	state := d.states.Get().(*detectState)
	defer d.states.Put(state)

	for i := range n {
		state.dist[i] = math.Inf(1)
		state.pred[i] = noPredecessor
	}
	state.dist[source] = 0

	for round := 0; round < n-1; round++ {
		relaxed := false
		for _, e := range d.edges {
			if candidate := state.dist[e.From] + e.Weight; candidate < state.dist[e.To] {
				state.dist[e.To] = candidate
				state.pred[e.To] = e.From
				relaxed = true
			}
		}
		if !relaxed {
			break
		}
	}

	var cycles []Cycle
	for _, e := range d.edges {
		if state.dist[e.From]+e.Weight >= state.dist[e.To] {
			continue
		}
		walk, closed := reconstructCycle(state.pred, state.seen, e.From, e.To)
		nodes := make([]string, len(walk))
		for i, idx := range walk {
			nodes[i] = d.line.Node(idx)
		}
		cycles = append(cycles, Cycle{
			Nodes:      nodes,
			Source:     d.line.Node(source),
			Degenerate: !closed,
		})
	}
	return cycles
}

// reconstructCycle recovers the cycle closed by the still-relaxable edge u -> v.
//
// It walks predecessors backward from u until the predecessor is v (closed), the
// predecessor was already visited, the chain ends, or len(pred) steps have been
// taken. The walk is reversed and prefixed with v. Only the first outcome is a
// proper cycle; the others are returned as-is with closed == false.
func reconstructCycle(pred []int, seen bitset.BitSet, u, v int) (walk []int, closed bool) {
	seen = seen.Reset(len(pred))

	walk = append(walk, u)
	seen.Set(u)
	current := u
	for steps := 0; steps < len(pred); steps++ {
		p := pred[current]
		if p == v {
			closed = true
			break
		}
		if p == noPredecessor || seen.IsSet(p) {
			break
		}
		walk = append(walk, p)
		seen.Set(p)
		current = p
	}

	slices.Reverse(walk)
	return append([]int{v}, walk...), closed
}
