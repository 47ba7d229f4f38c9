package arbitrage

import (
	"fmt"

	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
	calculator "github.com/defistate/defistate-arb/protocols/uniswapv2/calculator"
)

// PoolLookup resolves the pool trading a token pair, in either order.
type PoolLookup interface {
	GetByPair(tokenA, tokenB string) (uniswapv2.Pool, bool)
}

// routeHop is a cycle hop bound to the pool that executes it.
type routeHop struct {
	Hop
	pool uniswapv2.Pool
}

// Optimizer sizes trades along cycles by simulating sequential constant-product swaps.
// It is stateless and safe for concurrent use.
type Optimizer struct {
	pools         PoolLookup
	feeRate       float64
	tolerance     float64
	upperBound    float64
	maxIterations int
}

// NewOptimizer creates an optimizer reading FeeRate, Tolerance, UpperBound and
// MaxIterations from cfg.
func NewOptimizer(pools PoolLookup, cfg Config) *Optimizer {
	return &Optimizer{
		pools:         pools,
		feeRate:       cfg.FeeRate,
		tolerance:     cfg.Tolerance,
		upperBound:    cfg.UpperBound,
		maxIterations: cfg.MaxIterations,
	}
}

// route binds every hop of cycle to its pool. A hop that does not start where the
// previous one ended needs a bridging swap the cycle does not contain, and is
// reported like any other missing pair.
func (o *Optimizer) route(cycle Cycle) ([]routeHop, error) {
	hops, err := cycle.Hops()
	if err != nil {
		return nil, err
	}
	route := make([]routeHop, len(hops))
	for i, hop := range hops {
		if i > 0 && hops[i-1].To != hop.From {
			return nil, &PairNotFoundError{TokenIn: hops[i-1].To, TokenOut: hop.From}
		}
		pool, ok := o.pools.GetByPair(hop.From, hop.To)
		if !ok {
			return nil, &PairNotFoundError{TokenIn: hop.From, TokenOut: hop.To}
		}
		route[i] = routeHop{Hop: hop, pool: pool}
	}
	return route, nil
}

// simulate carries amountIn through every hop of route, returning the final
// amount and, when withPath is set, the per-hop outputs.
func (o *Optimizer) simulate(route []routeHop, amountIn float64, withPath bool) (float64, []SwapStep, error) {
	var path []SwapStep
	if withPath {
		path = make([]SwapStep, 0, len(route))
	}
	amount := amountIn
	for _, hop := range route {
		out, err := calculator.GetAmountOut(amount, hop.From, hop.To, hop.pool, o.feeRate)
		if err != nil {
			return 0, nil, fmt.Errorf("simulating %s -> %s: %w", hop.From, hop.To, err)
		}
		amount = out
		if withPath {
			path = append(path, SwapStep{From: hop.From, To: hop.To, Amount: amount})
		}
	}
	return amount, path, nil
}

// Simulate swaps amountIn of the cycle's start token along every hop.
func (o *Optimizer) Simulate(cycle Cycle, amountIn float64) (float64, []SwapStep, error) {
	route, err := o.route(cycle)
	if err != nil {
		return 0, nil, err
	}
	return o.simulate(route, amountIn, true)
}

// Profit returns simulate(amountIn) - amountIn for the cycle.
func (o *Optimizer) Profit(cycle Cycle, amountIn float64) (float64, error) {
	route, err := o.route(cycle)
	if err != nil {
		return 0, err
	}
	out, _, err := o.simulate(route, amountIn, false)
	if err != nil {
		return 0, err
	}
	return out - amountIn, nil
}

// Optimize finds the input in [0, UpperBound] maximizing output minus input.
//
// Slippage makes the profit curve concave, so a ternary search narrows the
// interval until it is smaller than Tolerance. For profitable cycles the
// break-even input is then bisected on [optimum, UpperBound]: the bound moves up
// while the cycle still returns more than it consumes.
func (o *Optimizer) Optimize(cycle Cycle) (Opportunity, error) {
	route, err := o.route(cycle)
	if err != nil {
		return Opportunity{}, err
	}

	profit := func(x float64) (float64, error) {
		out, _, err := o.simulate(route, x, false)
		return out - x, err
	}

	low, high := 0.0, o.upperBound
	for i := 0; i < o.maxIterations && high-low > o.tolerance; i++ {
		third := (high - low) / 3
		m1, m2 := low+third, high-third
		if m1 <= low || m2 >= high {
			break // interval can no longer be split at this magnitude
		}
		p1, err := profit(m1)
		if err != nil {
			return Opportunity{}, err
		}
		p2, err := profit(m2)
		if err != nil {
			return Opportunity{}, err
		}
		if p1 < p2 {
			low = m1
		} else {
			high = m2
		}
	}

	optimalInput := low + (high-low)/2
	out, path, err := o.simulate(route, optimalInput, true)
	if err != nil {
		return Opportunity{}, err
	}
	best := out - optimalInput

	// Guard against the search settling on a worse point than not trading at all.
	if best < 0 {
		if p0, err := profit(0); err == nil && p0 >= best {
			optimalInput, best = 0, p0
			_, path, _ = o.simulate(route, 0, true)
		}
	}

	opp := Opportunity{
		Cycle:        append([]string(nil), cycle.Nodes...),
		StartToken:   cycle.StartToken(),
		OptimalInput: optimalInput,
		Profit:       best,
		Path:         path,
		Source:       cycle.Source,
		Degenerate:   cycle.Degenerate,
	}

	if best > 0 {
		opp.BreakEvenInput, err = o.breakEven(route, optimalInput)
		if err != nil {
			return Opportunity{}, err
		}
	}

	return opp, nil
}

// breakEven bisects [from, UpperBound] for the largest input whose output still
// exceeds it.
func (o *Optimizer) breakEven(route []routeHop, from float64) (float64, error) {
	low, high := from, o.upperBound
	for i := 0; i < o.maxIterations && high-low > o.tolerance; i++ {
		mid := low + (high-low)/2
		if mid <= low || mid >= high {
			break
		}
		out, _, err := o.simulate(route, mid, false)
		if err != nil {
			return 0, err
		}
		if out > mid {
			low = mid
		} else {
			high = mid
		}
	}
	return low, nil
}
