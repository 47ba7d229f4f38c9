package tokenregistry

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token is a member of the token universe the engine may route through.
// ID is the unique key; for Uniswap V2 datasets it is the lower-case token address.
type Token struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Address returns the contract address encoded in the token ID.
// ok is false when the ID is not a hex address.
func (t Token) Address() (address common.Address, ok bool) {
	if !common.IsHexAddress(t.ID) {
		return common.Address{}, false
	}
	return common.HexToAddress(t.ID), true
}

// NormalizeID trims and lower-cases a token ID. Hex addresses are also given
// their 0x prefix, so checksummed, plain and bare-hex spellings of one address
// collapse onto the same key.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if common.IsHexAddress(id) {
		return strings.ToLower(common.HexToAddress(id).Hex())
	}
	return strings.ToLower(id)
}
