package arbitrage

import (
	"fmt"
	"slices"
	"strings"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// lineNodeSeparator joins the endpoints of a rate-graph edge into a line-graph node ID.
const lineNodeSeparator = "-"

// LineNodeID returns the line-graph node ID for the rate-graph edge from -> to.
func LineNodeID(from, to string) string {
	return from + lineNodeSeparator + to
}

// SplitLineNodeID splits a line-graph node ID into its rate-graph endpoints.
func SplitLineNodeID(id string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(id, lineNodeSeparator)
	if !ok || from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}

// Hop is a single swap of a cycle.
type Hop struct {
	From string
	To   string
}

// Cycle is a closed walk over the line graph as reported by the Detector.
// Each node is a "from-to" swap, in traversal order.
type Cycle struct {
	Nodes []string
	// Source is the line-graph node whose relaxation revealed the cycle.
	Source string
	// Degenerate is set when the predecessor walk did not close on the relaxed
	// edge's target. Such cycles are emitted untruncated.
	Degenerate bool
}

// Hops splits the cycle's nodes into token hops.
func (c Cycle) Hops() ([]Hop, error) {
	hops := make([]Hop, len(c.Nodes))
	for i, node := range c.Nodes {
		from, to, ok := SplitLineNodeID(node)
		if !ok {
			return nil, fmt.Errorf("malformed cycle node %q", node)
		}
		hops[i] = Hop{From: from, To: to}
	}
	return hops, nil
}

// StartToken returns the token the cycle is denominated in.
func (c Cycle) StartToken() string {
	if len(c.Nodes) == 0 {
		return ""
	}
	from, _, _ := SplitLineNodeID(c.Nodes[0])
	return from
}

// Key identifies the cycle independently of its rotation.
func (c Cycle) Key() string {
	return cycleKey(c.Nodes)
}

func (c Cycle) String() string {
	return strings.Join(c.Nodes, " -> ")
}

// cycleKey returns the lexicographically smallest rotation of nodes, joined.
func cycleKey(nodes []string) string {
	if len(nodes) == 0 {
		return ""
	}
	best := nodes
	rotated := make([]string, len(nodes))
	for shift := 1; shift < len(nodes); shift++ {
		copy(rotated, nodes[shift:])
		copy(rotated[len(nodes)-shift:], nodes[:shift])
		if slices.Compare(rotated, best) < 0 {
			best = slices.Clone(rotated)
		}
	}
	return strings.Join(best, ",")
}

// SwapStep is one executed hop of a simulated cycle.
type SwapStep struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Opportunity is a cycle together with its profit-maximizing trade size.
// Amounts are denominated in the cycle's start token.
type Opportunity struct {
	Cycle        []string   `json:"cycle"`
	StartToken   string     `json:"startToken"`
	OptimalInput float64    `json:"optimalInput"`
	Profit       float64    `json:"profit"`
	Path         []SwapStep `json:"path"`
	// BreakEvenInput is the largest input found that still returns at least the input.
	BreakEvenInput float64 `json:"breakEvenInput"`
	Source         string  `json:"source"`
	Degenerate     bool    `json:"degenerate,omitempty"`
}

// Key identifies the opportunity's cycle independently of its rotation.
func (o Opportunity) Key() string {
	return cycleKey(o.Cycle)
}
