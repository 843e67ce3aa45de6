package qsynth

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a 2x2 unitary acting on one qubit, row major.
type Matrix [2][2]complex128

// Axis selects the Pauli axis of a rotation.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// GateKind enumerates the operators the simulator knows how to build.
type GateKind int

const (
	GateHadamard GateKind = iota
	GatePauliX
	GatePauliY
	GatePauliZ
	GateS
	GateT
	GatePhase
	GateRX
	GateRY
	GateRZ
)

var gateNames = [...]string{
	GateHadamard: "H",
	GatePauliX:   "X",
	GatePauliY:   "Y",
	GatePauliZ:   "Z",
	GateS:        "S",
	GateT:        "T",
	GatePhase:    "P",
	GateRX:       "RX",
	GateRY:       "RY",
	GateRZ:       "RZ",
}

func (k GateKind) Valid() bool {
	return k >= 0 && int(k) < len(gateNames)
}

func (k GateKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
	return gateNames[k]
}

/*
Gate is an immutable description of one unitary operation: what it does (Kind and Theta),
where it acts (Target) and under which condition (every Controls qubit must read 1).
The constructors below are the only intended way to build one.
*/
type Gate struct {
	Kind     GateKind
	Target   int
	Controls []int
	Theta    float64
}

func Hadamard(target int) Gate { return Gate{Kind: GateHadamard, Target: target} }
func PauliX(target int) Gate   { return Gate{Kind: GatePauliX, Target: target} }
func PauliY(target int) Gate   { return Gate{Kind: GatePauliY, Target: target} }
func PauliZ(target int) Gate   { return Gate{Kind: GatePauliZ, Target: target} }
func S(target int) Gate        { return Gate{Kind: GateS, Target: target} }
func T(target int) Gate        { return Gate{Kind: GateT, Target: target} }

// Phase multiplies the |1⟩ amplitude of target by e^(iφ).
func Phase(target int, phi float64) Gate {
	return Gate{Kind: GatePhase, Target: target, Theta: phi}
}

// Rotation builds RX, RY or RZ by angle theta.
func Rotation(axis Axis, target int, theta float64) Gate {
	kind := GateRY

	switch axis {
	case AxisX:
		kind = GateRX
	case AxisZ:
		kind = GateRZ
	}

	return Gate{Kind: kind, Target: target, Theta: theta}
}

func RX(target int, theta float64) Gate { return Rotation(AxisX, target, theta) }
func RY(target int, theta float64) Gate { return Rotation(AxisY, target, theta) }
func RZ(target int, theta float64) Gate { return Rotation(AxisZ, target, theta) }

// CNOT flips target when control is 1.
func CNOT(control, target int) Gate {
	return Controlled(PauliX(target), control)
}

// CZ applies Pauli-Z to target when control is 1.
func CZ(control, target int) Gate {
	return Controlled(PauliZ(target), control)
}

// CRY rotates target around Y by theta when every control is 1.
func CRY(target int, theta float64, controls ...int) Gate {
	return Controlled(RY(target, theta), controls...)
}

// Controlled returns a copy of g that additionally requires controls to be 1.
func Controlled(g Gate, controls ...int) Gate {
	merged := make([]int, 0, len(g.Controls)+len(controls))
	merged = append(merged, g.Controls...)
	merged = append(merged, controls...)
	g.Controls = merged
	return g
}

// Matrix returns the 2x2 unitary applied to the target qubit.
func (g Gate) Matrix() Matrix {
	switch g.Kind {
	case GateHadamard:
		h := complex(1/math.Sqrt2, 0)
		return Matrix{{h, h}, {h, -h}}
	case GatePauliX:
		return Matrix{{0, 1}, {1, 0}}
	case GatePauliY:
		return Matrix{{0, -1i}, {1i, 0}}
	case GatePauliZ:
		return Matrix{{1, 0}, {0, -1}}
	case GateS:
		return Matrix{{1, 0}, {0, 1i}}
	case GateT:
		return Matrix{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
	case GatePhase:
		return Matrix{{1, 0}, {0, cmplx.Exp(complex(0, g.Theta))}}
	case GateRX:
		return RotationMatrix(AxisX, g.Theta)
	case GateRY:
		return RotationMatrix(AxisY, g.Theta)
	case GateRZ:
		return RotationMatrix(AxisZ, g.Theta)
	}

	return Matrix{{1, 0}, {0, 1}}
}

// RotationMatrix builds exp(-iθσ/2) for the given Pauli axis.
func RotationMatrix(axis Axis, theta float64) Matrix {
	c := math.Cos(theta / 2)
	s := math.Sin(theta / 2)

	switch axis {
	case AxisX:
		return Matrix{
			{complex(c, 0), complex(0, -s)},
			{complex(0, -s), complex(c, 0)},
		}
	case AxisZ:
		return Matrix{
			{cmplx.Exp(complex(0, -theta/2)), 0},
			{0, cmplx.Exp(complex(0, theta/2))},
		}
	}

	return Matrix{
		{complex(c, 0), complex(-s, 0)},
		{complex(s, 0), complex(c, 0)},
	}
}

func (g Gate) String() string {
	name := g.Kind.String()

	switch g.Kind {
	case GatePhase, GateRX, GateRY, GateRZ:
		name = fmt.Sprintf("%s(%.6f)", name, g.Theta)
	}

	if len(g.Controls) == 0 {
		return fmt.Sprintf("%s q%d", name, g.Target)
	}

	return fmt.Sprintf("C%v-%s q%d", g.Controls, name, g.Target)
}
