package bitset

import "math/bits"

// BitSet is a fixed-capacity set of non-negative ints backed by 64-bit words.
type BitSet []uint64

func words(n int) int {
	return (n + 63) / 64
}

// New returns a BitSet able to hold indices in [0, n).
func New(n int) BitSet {
	return make(BitSet, words(n))
}

// Reset clears the set and makes sure it can hold n indices, reusing the
// backing array when it is large enough.
func (b BitSet) Reset(n int) BitSet {
	w := words(n)
	if cap(b) < w {
		return make(BitSet, w)
	}
	b = b[:w]
	clear(b)
	return b
}

func (b BitSet) IsSet(i int) bool {
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b BitSet) Set(i int) {
	b[i>>6] |= 1 << (uint(i) & 63)
}

func (b BitSet) Unset(i int) {
	b[i>>6] &^= 1 << (uint(i) & 63)
}

// Count returns the number of set bits.
func (b BitSet) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}
