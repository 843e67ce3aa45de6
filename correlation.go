package qsynth

import (
	"fmt"
	"math"
)

// Encoding selects how a source value is written onto the encoding qubits.
type Encoding int

const (
	// EncodeAngle rotates every encoding qubit by RY(π·norm).
	EncodeAngle Encoding = iota
	// EncodeBits loads (value - lo) in binary, one Pauli-X per set bit.
	EncodeBits
	// EncodeQuantum adds no encoding layer: the encoding qubits already hold the source,
	// possibly in superposition, and the bias runs at full strength.
	EncodeQuantum
)

// Topology selects which coupling layers are laid between encoding and target qubits.
type Topology int

const (
	// Soft adds controlled-RY bias rotations only.
	Soft Topology = iota
	// Hard adds controlled-NOT parity links only.
	Hard
	// SoftHard adds the bias rotations followed by the parity links.
	SoftHard
)

func (t Topology) soft() bool { return t == Soft || t == SoftHard }
func (t Topology) hard() bool { return t == Hard || t == SoftHard }

/*
Coupling makes a target feature's distribution lean on a source feature's value. The same
four parameters (source range, strength, encoding, topology) describe every cross-feature
dependency; no pair of features gets bespoke gates.

The bias angle strength·norm·π/2 never exceeds π/2, so on a target already rotated to an
even superposition it only ever pushes P(1) upwards as norm grows.
*/
type Coupling struct {
	SourceLo float64
	SourceHi float64
	Strength float64
	Encoding Encoding
	Topology Topology
}

func (cp Coupling) Validate() error {
	if cp.SourceHi < cp.SourceLo {
		return configError("coupling source range [%v, %v] is negative", cp.SourceLo, cp.SourceHi)
	}
	if cp.Strength < 0 || cp.Strength > 1 || math.IsNaN(cp.Strength) {
		return configError("coupling strength %v outside [0, 1]", cp.Strength)
	}
	if cp.Encoding < EncodeAngle || cp.Encoding > EncodeQuantum {
		return configError("unknown encoding %d", cp.Encoding)
	}
	if cp.Topology < Soft || cp.Topology > SoftHard {
		return configError("unknown topology %d", cp.Topology)
	}
	return nil
}

// Normalize maps value into [0, 1] across the source range.
func (cp Coupling) Normalize(value float64) float64 {
	span := cp.SourceHi - cp.SourceLo
	if span == 0 {
		return 0
	}
	return math.Min(math.Max((value-cp.SourceLo)/span, 0), 1)
}

// BiasAngle is the controlled rotation laid on each target qubit for value.
func (cp Coupling) BiasAngle(value float64) float64 {
	if cp.Encoding == EncodeQuantum {
		return cp.Strength * math.Pi / 2
	}
	return cp.Strength * cp.Normalize(value) * math.Pi / 2
}

/*
Encode appends the encoding, bias and parity layers to c. Target j is coupled to
encoding[j mod len(encoding)]. The caller is responsible for preparing the targets' base
state before calling Encode.
*/
func (cp Coupling) Encode(c *Circuit, value float64, encoding, targets []int) error {
	if err := cp.Validate(); err != nil {
		return err
	}
	if len(encoding) == 0 || len(targets) == 0 {
		return configError("coupling needs encoding and target qubits")
	}

	switch cp.Encoding {
	case EncodeAngle:
		theta := math.Pi * cp.Normalize(value)
		for _, e := range encoding {
			c.Add(RY(e, theta))
		}
	case EncodeBits:
		offset := int(math.Round(value - cp.SourceLo))
		if offset < 0 || offset >= 1<<len(encoding) {
			return configError("value %v does not fit in %d encoding qubits", value, len(encoding))
		}
		for i, e := range encoding {
			if offset>>i&1 == 1 {
				c.Add(PauliX(e))
			}
		}
	}

	if cp.Topology.soft() {
		if theta := cp.BiasAngle(value); theta != 0 {
			for j, t := range targets {
				c.Add(CRY(t, theta, encoding[j%len(encoding)]))
			}
		}
	}

	if cp.Topology.hard() {
		for j, t := range targets {
			c.Add(CNOT(encoding[j%len(encoding)], t))
		}
	}

	return nil
}

func (cp Coupling) String() string {
	return fmt.Sprintf("coupling[%v..%v strength=%.2f enc=%d topo=%d]",
		cp.SourceLo, cp.SourceHi, cp.Strength, cp.Encoding, cp.Topology)
}
