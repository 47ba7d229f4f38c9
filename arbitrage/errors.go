package arbitrage

import (
	"errors"
	"fmt"
)

// ErrPairNotFound is matched by every PairNotFoundError.
var ErrPairNotFound = errors.New("pair not found")

// PairNotFoundError reports a cycle hop with no backing pool. The cycle is
// dropped; other cycles are unaffected.
type PairNotFoundError struct {
	TokenIn  string
	TokenOut string
}

func (e *PairNotFoundError) Error() string {
	return fmt.Sprintf("pair not found for %s-%s", e.TokenIn, e.TokenOut)
}

// Is lets errors.Is(err, ErrPairNotFound) match any PairNotFoundError.
func (e *PairNotFoundError) Is(target error) bool {
	return target == ErrPairNotFound
}
