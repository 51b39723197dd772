// Package partition splits an ordered asset list into an input prefix and
// an output suffix for QA pair synthesis.
package partition

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInsufficientAssets indicates fewer than two assets were available.
var ErrInsufficientAssets = errors.New("at least 2 assets required to partition")

// Partition is the division of an identifier's ordered assets into an
// input side and an output side. Concatenating Input and Output
// reconstructs the original order.
type Partition struct {
	Input  []string
	Output []string
}

// Total returns the combined asset count.
func (p Partition) Total() int {
	return len(p.Input) + len(p.Output)
}

// SplitStrategy chooses a split index for n assets. The returned index
// must lie in [1, n-1] so both sides are non-empty.
type SplitStrategy interface {
	Choose(n int) int
}

// RandomStrategy picks a split index uniformly at random over [1, n-1].
type RandomStrategy struct{}

// Choose returns a uniform random index in [1, n-1].
func (RandomStrategy) Choose(n int) int {
	return 1 + rand.IntN(n-1)
}

// FixedStrategy always returns the same split index. Used in tests and
// demo generation where reproducibility matters.
type FixedStrategy struct {
	Index int
}

// Choose returns the fixed index.
func (s FixedStrategy) Choose(int) int {
	return s.Index
}

// Split divides assets at an index chosen by the strategy. Both sides are
// guaranteed non-empty and original relative order is preserved.
func Split(assets []string, strategy SplitStrategy) (Partition, error) {
	n := len(assets)
	if n < 2 {
		return Partition{}, fmt.Errorf("%w: have %d", ErrInsufficientAssets, n)
	}
	if strategy == nil {
		strategy = RandomStrategy{}
	}

	idx := strategy.Choose(n)
	if idx < 1 || idx > n-1 {
		return Partition{}, fmt.Errorf("split index %d out of range [1, %d]", idx, n-1)
	}

	p := Partition{
		Input:  make([]string, idx),
		Output: make([]string, n-idx),
	}
	copy(p.Input, assets[:idx])
	copy(p.Output, assets[idx:])
	return p, nil
}
