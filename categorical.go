package qsynth

import (
	"math"
	"math/bits"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// WeightTolerance is how far a weight vector may sum away from 1.
const WeightTolerance = 1e-6

/*
Categorical samples an index i with probability weights[i]. The circuit is built once from
the weights: ceil(log2(len(weights))) qubits are loaded with a binary tree of Y rotations,
each conditioned on the higher bits already fixed, so that |amplitude[i]|² = weights[i].
Indices past the end of the weight vector get exactly zero amplitude.
*/
type Categorical struct {
	weights []float64
	qubits  int
	circuit *Circuit
}

func NewCategorical(name string, weights []float64) (*Categorical, error) {
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}

	owned := make([]float64, len(weights))
	copy(owned, weights)

	cat := &Categorical{
		weights: owned,
		qubits:  QubitsFor(len(owned)),
	}

	targets := make([]int, cat.qubits)
	for j := range targets {
		targets[j] = j
	}

	cat.circuit = NewCircuit(name, cat.qubits)
	cat.Prepare(cat.circuit, targets)

	return cat, nil
}

// UniformWeights returns n equal weights.
func UniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

// QubitsFor is ceil(log2(n)), and at least one qubit.
func QubitsFor(n int) int {
	if n <= 2 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// ValidateWeights rejects empty, negative, non-finite and non-normalized weight vectors.
func ValidateWeights(weights []float64) error {
	if len(weights) == 0 {
		return configError("empty weight vector")
	}

	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return configError("weight %d is %v", i, w)
		}
	}

	if sum := floats.Sum(weights); !scalar.EqualWithinAbs(sum, 1, WeightTolerance) {
		return configError("weights sum to %v, not 1", sum)
	}

	return nil
}

func (cat *Categorical) Qubits() int {
	return cat.qubits
}

func (cat *Categorical) Len() int {
	return len(cat.weights)
}

func (cat *Categorical) Circuit() *Circuit {
	return cat.circuit
}

/*
Prepare appends the loading gates to c, with targets[j] carrying bit j of the category
index. The targets must start in |0⟩.
*/
func (cat *Categorical) Prepare(c *Circuit, targets []int) {
	k := len(targets)
	padded := make([]float64, 1<<k)
	copy(padded, cat.weights)

	for j := k - 1; j >= 0; j-- {
		width := 1 << (j + 1)

		for prefix := 0; prefix < 1<<(k-1-j); prefix++ {
			lo := prefix * width
			total := floats.Sum(padded[lo : lo+width])
			upper := floats.Sum(padded[lo+width/2 : lo+width])

			if total <= 0 || upper <= 0 {
				continue
			}

			theta := 2 * math.Asin(math.Sqrt(math.Min(upper/total, 1)))
			controls := targets[j+1:]

			flips := make([]Gate, 0, len(controls))
			for h, q := range controls {
				if prefix>>h&1 == 0 {
					flips = append(flips, PauliX(q))
				}
			}

			c.Add(flips...)
			c.Add(CRY(targets[j], theta, controls...))
			c.Add(flips...)
		}
	}
}

// Draw executes the circuit once and returns the sampled category index.
func (cat *Categorical) Draw(exec *Executor, src RandomSource) (int, error) {
	result, _, err := exec.Sample(cat.circuit, NewSampler(src))
	if err != nil {
		return 0, err
	}
	return result.Int(), nil
}
