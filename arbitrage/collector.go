package arbitrage

import (
	"cmp"
	"slices"
	"sync"
)

// Collector accumulates profitable opportunities from concurrent workers.
type Collector struct {
	mu   sync.Mutex
	opps []Opportunity
}

func NewCollector() *Collector {
	return &Collector{}
}

// Add records opp if its profit is strictly positive and reports whether it was kept.
func (c *Collector) Add(opp Opportunity) bool {
	if !(opp.Profit > 0) {
		return false
	}
	c.mu.Lock()
	c.opps = append(c.opps, opp)
	c.mu.Unlock()
	return true
}

// Len returns the number of opportunities collected so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.opps)
}

// Opportunities returns every collected opportunity, best profit first. Equal
// profits are ordered by cycle key, then by source, so the result does not
// depend on worker scheduling.
func (c *Collector) Opportunities() []Opportunity {
	c.mu.Lock()
	out := slices.Clone(c.opps)
	c.mu.Unlock()

	sortOpportunities(out)
	return out
}

// Top returns at most n opportunities in Opportunities order. n <= 0 returns all.
func (c *Collector) Top(n int) []Opportunity {
	return head(c.Opportunities(), n)
}

// Select returns at most n opportunities, one per distinct cycle when unique
// is set, along with how many were available before truncation.
func (c *Collector) Select(n int, unique bool) (opps []Opportunity, total int) {
	if !unique {
		return c.Top(n), c.Len()
	}
	opps = c.Unique()
	return head(opps, n), len(opps)
}

// Unique returns the most profitable opportunity per distinct cycle, in
// Opportunities order. The same cycle is usually found from several sources.
func (c *Collector) Unique() []Opportunity {
	opps := c.Opportunities()
	seen := make(map[string]struct{}, len(opps))
	unique := opps[:0]
	for _, opp := range opps {
		key := opp.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, opp)
	}
	return unique
}

func head(opps []Opportunity, n int) []Opportunity {
	if n > 0 && n < len(opps) {
		return opps[:n]
	}
	return opps
}

func sortOpportunities(opps []Opportunity) {
	slices.SortStableFunc(opps, func(a, b Opportunity) int {
		if c := cmp.Compare(b.Profit, a.Profit); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Key(), b.Key()); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})
}
