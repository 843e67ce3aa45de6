package qsynth

import (
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// MaxQubits bounds a register to 2^24 amplitudes (256 MiB of complex128).
	MaxQubits = 24

	// NormTolerance is the allowed drift of Σ|a|² away from 1.
	NormTolerance = 1e-9
)

/*
Register is an n-qubit state vector of 2^n complex amplitudes. Basis index bit k holds
the value of qubit k, so qubit 0 is the least significant bit.

A Register belongs to exactly one circuit execution: it is allocated, mutated in place by
gates, measured and then dropped. There is no reset.
*/
type Register struct {
	qubits     int
	amplitudes []complex128
}

// Allocate returns a register in the all-zero basis state |0...0⟩.
func Allocate(n int) (*Register, error) {
	if n <= 0 || n > MaxQubits {
		return nil, configError("qubit count %d outside [1, %d]", n, MaxQubits)
	}

	amplitudes := make([]complex128, 1<<n)
	amplitudes[0] = 1

	return &Register{
		qubits:     n,
		amplitudes: amplitudes,
	}, nil
}

func (r *Register) Qubits() int {
	return r.qubits
}

// Amplitudes returns a copy of the state vector.
func (r *Register) Amplitudes() []complex128 {
	out := make([]complex128, len(r.amplitudes))
	copy(out, r.amplitudes)
	return out
}

// Probability of observing basis state i on a full measurement.
func (r *Register) Probability(i int) float64 {
	return squaredMagnitude(r.amplitudes[i])
}

// Norm is Σ|a|² over the whole vector.
func (r *Register) Norm() float64 {
	var total float64
	for _, a := range r.amplitudes {
		total += squaredMagnitude(a)
	}
	return total
}

// ApplySingleQubitGate applies m to target unconditionally.
func (r *Register) ApplySingleQubitGate(target int, m Matrix) error {
	return r.ApplyControlledGate(nil, target, m)
}

/*
ApplyControlledGate applies m to every pair of basis states that differ only in the target
bit and have all control bits set. Pairs with any control bit at 0 are left untouched.
*/
func (r *Register) ApplyControlledGate(controls []int, target int, m Matrix) error {
	if err := r.validate(controls, target); err != nil {
		return err
	}

	var mask int
	for _, c := range controls {
		mask |= 1 << c
	}

	bit := 1 << target

	for i := range r.amplitudes {
		if i&bit != 0 || i&mask != mask {
			continue
		}

		j := i | bit
		a0, a1 := r.amplitudes[i], r.amplitudes[j]
		r.amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
		r.amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
	}

	return r.checkNorm()
}

// ApplyRotation applies R_axis(theta) to target, conditioned on controls when given.
func (r *Register) ApplyRotation(axis Axis, theta float64, target int, controls ...int) error {
	return r.ApplyControlledGate(controls, target, RotationMatrix(axis, theta))
}

// Apply dispatches a Gate description onto the register.
func (r *Register) Apply(g Gate) error {
	return r.ApplyControlledGate(g.Controls, g.Target, g.Matrix())
}

func (r *Register) validate(controls []int, target int) error {
	if target < 0 || target >= r.qubits {
		return configError("target qubit %d outside register of %d", target, r.qubits)
	}

	var seen int
	for _, c := range controls {
		if c < 0 || c >= r.qubits {
			return configError("control qubit %d outside register of %d", c, r.qubits)
		}
		if c == target {
			return configError("qubit %d is both control and target", c)
		}
		if seen&(1<<c) != 0 {
			return configError("duplicate control qubit %d", c)
		}
		seen |= 1 << c
	}

	return nil
}

func (r *Register) checkNorm() error {
	norm := r.Norm()
	if !scalar.EqualWithinAbs(norm, 1, NormTolerance) {
		return invariantError("norm %.15f drifted beyond %g", norm, NormTolerance)
	}
	return nil
}

func squaredMagnitude(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}
