package qsynth

import (
	"math/rand/v2"
)

/*
RandomSource is the only place randomness enters the system. Every measurement takes
exactly one Float64 draw from it, so a fixed seed reproduces every sample.
*/
type RandomSource interface {
	Float64() float64
	Uint64() uint64
}

// Source is the default RandomSource, a PCG stream fixed by its seed.
type Source struct {
	rng *rand.Rand
}

func NewSource(seed uint64) *Source {
	return &Source{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

func (s *Source) Uint64() uint64 {
	return s.rng.Uint64()
}

/*
Substream derives an independent child source by drawing its seed from the parent.
Children taken in the same order from the same parent are always identical, which is
what keeps parallel batches reproducible.
*/
func Substream(parent RandomSource) *Source {
	return NewSource(parent.Uint64())
}

// sourceReader adapts a RandomSource to io.Reader for consumers such as uuid.
type sourceReader struct {
	src RandomSource
}

func (r sourceReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.src.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}
