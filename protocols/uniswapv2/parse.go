package uniswapv2

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tokenregistry "github.com/defistate/defistate-arb/protocols/tokenregistry"
	"github.com/shopspring/decimal"
)

// ErrDataFormat is matched by every DataFormatError.
var ErrDataFormat = errors.New("malformed pool data")

// DataFormatError reports a pool record whose numeric field is not a valid
// non-negative real number, or whose token identifiers are unusable.
type DataFormatError struct {
	PoolID string
	Field  string
	Value  string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pool %s: field %s=%q: %v", e.PoolID, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("pool %s: field %s=%q is not a valid non-negative number", e.PoolID, e.Field, e.Value)
}

// Is lets errors.Is(err, ErrDataFormat) match any DataFormatError.
func (e *DataFormatError) Is(target error) bool {
	return target == ErrDataFormat
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

var (
	errNegative   = errors.New("value is negative")
	errOutOfRange = errors.New("value overflows float64")
)

// ParseAmount parses a non-negative decimal string. Scientific notation is accepted.
func ParseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegative
	}
	return d, nil
}

// ParsePool converts a raw pair record into a Pool.
// ReserveUSD is optional; an empty string parses as zero.
func ParsePool(pair Pair) (Pool, error) {
	pool := Pool{
		ID:     pair.ID,
		Token0: tokenregistry.NormalizeID(pair.Token0.ID),
		Token1: tokenregistry.NormalizeID(pair.Token1.ID),
	}
	if pool.Token0 == "" || pool.Token1 == "" {
		return Pool{}, &DataFormatError{PoolID: pair.ID, Field: "token", Value: pool.Token0 + "/" + pool.Token1, Err: errors.New("missing token id")}
	}
	if pool.Token0 == pool.Token1 {
		return Pool{}, &DataFormatError{PoolID: pair.ID, Field: "token", Value: pool.Token0, Err: errors.New("pool references the same token twice")}
	}

	fields := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"reserve0", pair.Reserve0, &pool.Reserve0},
		{"reserve1", pair.Reserve1, &pool.Reserve1},
		{"token0Price", pair.Token0Price, &pool.Token0Price},
		{"token1Price", pair.Token1Price, &pool.Token1Price},
	}
	for _, f := range fields {
		d, err := ParseAmount(f.value)
		if err != nil {
			return Pool{}, &DataFormatError{PoolID: pair.ID, Field: f.name, Value: f.value, Err: err}
		}
		v := d.InexactFloat64()
		if math.IsInf(v, 0) {
			return Pool{}, &DataFormatError{PoolID: pair.ID, Field: f.name, Value: f.value, Err: errOutOfRange}
		}
		*f.dst = v
	}

	if strings.TrimSpace(pair.ReserveUSD) != "" {
		d, err := ParseAmount(pair.ReserveUSD)
		if err != nil {
			return Pool{}, &DataFormatError{PoolID: pair.ID, Field: "reserveUSD", Value: pair.ReserveUSD, Err: err}
		}
		pool.ReserveUSD = d.InexactFloat64()
	}

	return pool, nil
}
