package bench

import (
	"github.com/gravitational/trace"
)

// LCG is a 64-bit linear congruential generator.
type LCG struct {
	state uint64
}

// NewLCG returns a generator seeded with seed.
func NewLCG(seed uint64) *LCG {
	return &LCG{state: seed}
}

// Seed resets the generator.
func (g *LCG) Seed(seed uint64) {
	g.state = seed
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint64 {
	g.state = g.state*1103515245 + 12345
	return g.state
}

// DefaultStart is the first value of every generated input: the first
// output of an unseeded generator.
var DefaultStart = int64(NewLCG(0).Next())

// Input is a scrambled permutation of Start, Start+1, ..., Start+len-1.
type Input struct {
	Values []int64
	Start  int64
	rng    *LCG
}

// FillArray returns size consecutive integers from start, scrambled with a
// generator seeded with 1.
func FillArray(size int, start int64) *Input {
	values := make([]int64, size)
	for i := range values {
		values[i] = start + int64(i)
	}
	in := &Input{Values: values, Start: start, rng: NewLCG(1)}
	in.Scramble()
	return in
}

// Scramble swaps every position with a pseudo-random one. Successive calls
// continue the same generator stream.
func (in *Input) Scramble() {
	n := uint64(len(in.Values))
	if n == 0 {
		return
	}
	for i := range in.Values {
		j := in.rng.Next() % n
		in.Values[i], in.Values[j] = in.Values[j], in.Values[i]
	}
}

// Verify checks that result is exactly start, start+1, ... in order.
func Verify(result []int64, size int, start int64) error {
	if len(result) != size {
		return trace.CompareFailed("result has %v elements, expected %v", len(result), size)
	}
	for i, v := range result {
		if want := start + int64(i); v != want {
			return trace.CompareFailed("element %v is %v, expected %v", i, v, want)
		}
	}
	return nil
}
