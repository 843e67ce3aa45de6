package qsynth

import (
	"fmt"
	"math"
	"strings"
)

// degenerateMass is the total probability below which a distribution cannot be sampled.
const degenerateMass = 1e-12

/*
MeasurementResult is the classical outcome of a measurement. Bit j belongs to the j-th
measured qubit, and Int reads bit 0 as the least significant bit.
*/
type MeasurementResult struct {
	bits []uint8
}

func NewMeasurementResult(bits []uint8) MeasurementResult {
	owned := make([]uint8, len(bits))
	copy(owned, bits)
	return MeasurementResult{bits: owned}
}

func decodeIndex(index, width int) MeasurementResult {
	bits := make([]uint8, width)
	for j := range bits {
		bits[j] = uint8(index >> j & 1)
	}
	return MeasurementResult{bits: bits}
}

func (m MeasurementResult) Len() int {
	return len(m.bits)
}

func (m MeasurementResult) Bit(j int) uint8 {
	return m.bits[j]
}

func (m MeasurementResult) Bits() []uint8 {
	out := make([]uint8, len(m.bits))
	copy(out, m.bits)
	return out
}

func (m MeasurementResult) Int() int {
	var value int
	for j, b := range m.bits {
		value |= int(b) << j
	}
	return value
}

// String renders the outcome in ket order, highest bit first.
func (m MeasurementResult) String() string {
	var sb strings.Builder
	sb.WriteByte('|')
	for j := len(m.bits) - 1; j >= 0; j-- {
		sb.WriteByte('0' + m.bits[j])
	}
	sb.WriteString("⟩")
	return sb.String()
}

/*
Sampler turns amplitudes into classical outcomes. It holds no randomness of its own: every
call consumes exactly one draw from the injected RandomSource.
*/
type Sampler struct {
	src RandomSource
}

func NewSampler(src RandomSource) *Sampler {
	return &Sampler{src: src}
}

/*
Measure samples every qubit at once and collapses the register onto the observed basis
state.
*/
func (s *Sampler) Measure(r *Register) (MeasurementResult, error) {
	probs := make([]float64, len(r.amplitudes))
	for i, a := range r.amplitudes {
		probs[i] = squaredMagnitude(a)
	}

	index, err := s.invert(probs)
	if err != nil {
		return MeasurementResult{}, err
	}

	for i := range r.amplitudes {
		r.amplitudes[i] = 0
	}
	r.amplitudes[index] = 1

	return decodeIndex(index, r.qubits), nil
}

/*
MeasurePartial samples only the given qubits. It sums the probability of every basis
state into the marginal of the assignment it agrees with, samples one assignment, then
zeroes every inconsistent amplitude and rescales the rest by 1/√p. The remaining qubits
stay in superposition and can keep receiving gates.
*/
func (s *Sampler) MeasurePartial(r *Register, qubits []int) (MeasurementResult, error) {
	if len(qubits) == 0 {
		return MeasurementResult{}, configError("partial measurement of no qubits")
	}

	var seen int
	for _, q := range qubits {
		if q < 0 || q >= r.qubits {
			return MeasurementResult{}, configError("measured qubit %d outside register of %d", q, r.qubits)
		}
		if seen&(1<<q) != 0 {
			return MeasurementResult{}, configError("qubit %d measured twice", q)
		}
		seen |= 1 << q
	}

	assignment := func(i int) int {
		var key int
		for j, q := range qubits {
			key |= (i >> q & 1) << j
		}
		return key
	}

	marginals := make([]float64, 1<<len(qubits))
	for i, a := range r.amplitudes {
		marginals[assignment(i)] += squaredMagnitude(a)
	}

	key, err := s.invert(marginals)
	if err != nil {
		return MeasurementResult{}, err
	}

	scale := complex(1/math.Sqrt(marginals[key]), 0)
	for i := range r.amplitudes {
		if assignment(i) != key {
			r.amplitudes[i] = 0
			continue
		}
		r.amplitudes[i] *= scale
	}

	if err := r.checkNorm(); err != nil {
		return MeasurementResult{}, err
	}

	return decodeIndex(key, len(qubits)), nil
}

// invert picks an index by cumulative-distribution inversion against one uniform draw.
func (s *Sampler) invert(probs []float64) (int, error) {
	var total float64
	for _, p := range probs {
		total += p
	}

	if total < degenerateMass || math.IsNaN(total) {
		return 0, fmt.Errorf("%w: total probability %g", ErrDegenerateDistribution, total)
	}

	threshold := s.src.Float64() * total
	last := -1

	var cumulative float64
	for i, p := range probs {
		if p == 0 {
			continue
		}
		cumulative += p
		last = i
		if threshold < cumulative {
			return i, nil
		}
	}

	// Rounding can leave threshold a hair above the final cumulative sum.
	return last, nil
}
