package indexer

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	tokenregistry "github.com/defistate/defistate-arb/protocols/tokenregistry"
)

// IndexableTokenSystem provides fast, indexed access to the token universe.
// Tokens are keyed by their normalized ID; the first occurrence of an ID wins.
type IndexableTokenSystem struct {
	byID      map[string]tokenregistry.Token
	byAddress map[common.Address]tokenregistry.Token
	members   mapset.Set[string]
	all       []tokenregistry.Token
}

// NewIndexableTokenSystem creates a new indexed token system from a raw slice.
func NewIndexableTokenSystem(tokens []tokenregistry.Token) *IndexableTokenSystem {
	byID := make(map[string]tokenregistry.Token, len(tokens))
	byAddress := make(map[common.Address]tokenregistry.Token, len(tokens))
	members := mapset.NewThreadUnsafeSetWithSize[string](len(tokens))
	all := make([]tokenregistry.Token, 0, len(tokens))

	for _, t := range tokens {
		t.ID = tokenregistry.NormalizeID(t.ID)
		if !members.Add(t.ID) {
			continue
		}
		byID[t.ID] = t
		if address, ok := t.Address(); ok {
			byAddress[address] = t
		}
		all = append(all, t)
	}

	return &IndexableTokenSystem{
		byID:      byID,
		byAddress: byAddress,
		members:   members,
		all:       all,
	}
}

// GetByID retrieves a token by its ID.
func (its *IndexableTokenSystem) GetByID(id string) (tokenregistry.Token, bool) {
	t, ok := its.byID[tokenregistry.NormalizeID(id)]
	return t, ok
}

// GetByAddress retrieves a token by its contract address.
func (its *IndexableTokenSystem) GetByAddress(address common.Address) (tokenregistry.Token, bool) {
	t, ok := its.byAddress[address]
	return t, ok
}

// Contains reports whether id belongs to the universe.
func (its *IndexableTokenSystem) Contains(id string) bool {
	return its.members.Contains(tokenregistry.NormalizeID(id))
}

// IDs returns the token IDs in universe order.
func (its *IndexableTokenSystem) IDs() []string {
	ids := make([]string, len(its.all))
	for i, t := range its.all {
		ids[i] = t.ID
	}
	return ids
}

// All returns a defensive copy of the slice of all tokens in the system.
func (its *IndexableTokenSystem) All() []tokenregistry.Token {
	allCopy := make([]tokenregistry.Token, len(its.all))
	copy(allCopy, its.all)
	return allCopy
}
