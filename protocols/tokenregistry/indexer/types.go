package indexer

import (
	tokenregistry "github.com/defistate/defistate-arb/protocols/tokenregistry"
	"github.com/ethereum/go-ethereum/common"
)

// IndexedTokenSystem defines the methods for accessing an indexed token universe.
type IndexedTokenSystem interface {
	GetByID(id string) (tokenregistry.Token, bool)
	GetByAddress(address common.Address) (tokenregistry.Token, bool)
	Contains(id string) bool
	IDs() []string
	All() []tokenregistry.Token
}
