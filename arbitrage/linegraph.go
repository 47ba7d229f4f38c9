package arbitrage

import "github.com/defistate/defistate-arb/graph"

// BuildLineGraph turns every rate-graph edge A->B into a node "A-B" and links
// "A-B" to "B-C" with the weight of B->C whenever A != C. Weights are copied
// unchanged. Node order follows the rate graph's node order, then out-edge order.
func BuildLineGraph(rate *graph.Graph) *graph.Graph {
	line := graph.New()

	for from := 0; from < rate.NodeCount(); from++ {
		for _, e := range rate.OutEdges(from) {
			line.AddNode(LineNodeID(rate.Node(e.From), rate.Node(e.To)))
		}
	}

	for from := 0; from < rate.NodeCount(); from++ {
		for _, e := range rate.OutEdges(from) {
			current := LineNodeID(rate.Node(e.From), rate.Node(e.To))
			for _, next := range rate.OutEdges(e.To) {
				if next.To == e.From {
					continue
				}
				line.AddEdge(current, LineNodeID(rate.Node(next.From), rate.Node(next.To)), next.Weight)
			}
		}
	}

	return line
}
