// Package dataset persists pair and token snapshots as indented JSON files.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/defistate/defistate-arb/protocols/tokenregistry"
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

const (
	DefaultPairsFile  = "uniswap_v2_pairs.json"
	DefaultTokensFile = "selected_tokens.json"
)

// Load reads a JSON array of records from path.
func Load[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []T
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

// Save writes records to path as an indented JSON array, creating parent
// directories as needed. The file is replaced atomically.
func Save[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func LoadPairs(path string) ([]uniswapv2.Pair, error) {
	return Load[uniswapv2.Pair](path)
}

func SavePairs(path string, pairs []uniswapv2.Pair) error {
	return Save(path, pairs)
}

func LoadTokens(path string) ([]tokenregistry.Token, error) {
	return Load[tokenregistry.Token](path)
}

func SaveTokens(path string, tokens []tokenregistry.Token) error {
	return Save(path, tokens)
}
