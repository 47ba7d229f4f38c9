// Package selector narrows a full pair dataset to the liquid core of the market:
// pools above a TVL floor, capped in pool count and in the number of distinct
// tokens they touch.
package selector

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/defistate/defistate-arb/protocols/tokenregistry"
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

const (
	DefaultTargetPools  = 400
	DefaultTargetTokens = 100
)

// DefaultMinTVL is the minimum pool reserve, in USD, kept by default.
var DefaultMinTVL = decimal.NewFromInt(20000)

// Config holds the selection limits.
type Config struct {
	MinTVL       decimal.Decimal
	TargetPools  int
	TargetTokens int
}

func DefaultConfig() Config {
	return Config{
		MinTVL:       DefaultMinTVL,
		TargetPools:  DefaultTargetPools,
		TargetTokens: DefaultTargetTokens,
	}
}

func (c *Config) validate() error {
	if c.MinTVL.IsNegative() {
		return errors.New("config: MinTVL cannot be negative")
	}
	if c.TargetPools <= 0 {
		return errors.New("config: TargetPools must be positive")
	}
	if c.TargetTokens <= 0 {
		return errors.New("config: TargetTokens must be positive")
	}
	return nil
}

// Selection is the outcome of Select.
type Selection struct {
	// Pairs are the selected pairs, highest TVL first.
	Pairs []uniswapv2.Pair
	// Tokens are the distinct tokens of Pairs in order of first appearance.
	Tokens []tokenregistry.Token
	// Skipped counts pairs whose reserveUSD could not be parsed.
	Skipped int
}

type rankedPair struct {
	pair uniswapv2.Pair
	tvl  decimal.Decimal
}

// Select keeps the pairs with reserveUSD >= MinTVL, ranks them by reserveUSD
// descending and takes the top TargetPools. While the selection still touches
// more than TargetTokens distinct tokens, its lowest-TVL pair is dropped.
func Select(pairs []uniswapv2.Pair, cfg Config) (Selection, error) {
	if err := cfg.validate(); err != nil {
		return Selection{}, err
	}

	var sel Selection
	ranked := make([]rankedPair, 0, len(pairs))
	for _, p := range pairs {
		tvl, err := uniswapv2.ParseAmount(p.ReserveUSD)
		if err != nil {
			sel.Skipped++
			continue
		}
		if tvl.LessThan(cfg.MinTVL) {
			continue
		}
		ranked = append(ranked, rankedPair{pair: p, tvl: tvl})
	}

	slices.SortStableFunc(ranked, func(a, b rankedPair) int {
		return b.tvl.Cmp(a.tvl)
	})
	if len(ranked) > cfg.TargetPools {
		ranked = ranked[:cfg.TargetPools]
	}

	refs := make(map[string]int)
	for _, r := range ranked {
		refs[tokenregistry.NormalizeID(r.pair.Token0.ID)]++
		refs[tokenregistry.NormalizeID(r.pair.Token1.ID)]++
	}
	for len(refs) > cfg.TargetTokens && len(ranked) > 0 {
		last := ranked[len(ranked)-1].pair
		ranked = ranked[:len(ranked)-1]
		for _, id := range []string{last.Token0.ID, last.Token1.ID} {
			id = tokenregistry.NormalizeID(id)
			if refs[id]--; refs[id] == 0 {
				delete(refs, id)
			}
		}
	}

	seen := make(map[string]struct{}, len(refs))
	sel.Pairs = make([]uniswapv2.Pair, len(ranked))
	for i, r := range ranked {
		sel.Pairs[i] = r.pair
		for _, t := range []tokenregistry.Token{r.pair.Token0, r.pair.Token1} {
			id := tokenregistry.NormalizeID(t.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			sel.Tokens = append(sel.Tokens, t)
		}
	}

	return sel, nil
}
