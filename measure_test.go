package qsynth

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMeasurementResult(t *testing.T) {
	Convey("Given measured bits", t, func() {
		result := NewMeasurementResult([]uint8{1, 0, 1, 1})

		Convey("Bit 0 should be the least significant", func() {
			So(result.Int(), ShouldEqual, 13)
			So(result.Len(), ShouldEqual, 4)
			So(result.String(), ShouldEqual, "|1101⟩")
		})

		Convey("It should not alias the caller's slice", func() {
			bits := result.Bits()
			bits[0] = 0
			So(result.Bit(0), ShouldEqual, 1)
		})
	})
}

func TestFullMeasurement(t *testing.T) {
	Convey("Given a qubit rotated by 2·arcsin(√p)", t, func() {
		const (
			p     = 0.3
			draws = 100000
		)

		circuit := NewCircuit("biased-coin", 1).Add(RY(0, 2*math.Asin(math.Sqrt(p))))
		exec := NewExecutor()
		sampler := NewSampler(NewSource(1))

		Convey("The frequency of 1 should be within 1% of p", func() {
			ones := 0
			for i := 0; i < draws; i++ {
				result, _, err := exec.Sample(circuit, sampler)
				So(err, ShouldBeNil)
				ones += result.Int()
			}
			So(float64(ones)/draws, ShouldAlmostEqual, p, 0.01)
		})
	})

	Convey("Given a Hadamard + CNOT pair", t, func() {
		circuit := NewCircuit("bell", 2).Add(Hadamard(0), CNOT(0, 1))
		exec := NewExecutor()
		sampler := NewSampler(NewSource(2))

		Convey("Only 00 and 11 should be observed, about half each", func() {
			counts := make([]int, 4)
			for i := 0; i < 20000; i++ {
				result, _, err := exec.Sample(circuit, sampler)
				So(err, ShouldBeNil)
				counts[result.Int()]++
			}

			So(counts[1], ShouldEqual, 0)
			So(counts[2], ShouldEqual, 0)
			So(float64(counts[0])/20000, ShouldAlmostEqual, 0.5, 0.02)
			So(float64(counts[3])/20000, ShouldAlmostEqual, 0.5, 0.02)
		})
	})

	Convey("Given a full measurement", t, func() {
		reg, _ := Allocate(2)
		So(reg.Apply(Hadamard(0)), ShouldBeNil)

		Convey("The register should collapse onto the observed state", func() {
			result, err := NewSampler(NewSource(3)).Measure(reg)
			So(err, ShouldBeNil)
			So(reg.Probability(result.Int()), ShouldEqual, 1)
		})
	})
}

func TestPartialMeasurement(t *testing.T) {
	Convey("Given an entangled pair plus a free qubit", t, func() {
		sampler := NewSampler(NewSource(4))

		Convey("Measuring qubit 0 should fix qubit 1 and keep qubit 2 in superposition", func() {
			for i := 0; i < 50; i++ {
				reg, _ := Allocate(3)
				So(reg.Apply(Hadamard(0)), ShouldBeNil)
				So(reg.Apply(CNOT(0, 1)), ShouldBeNil)
				So(reg.Apply(Hadamard(2)), ShouldBeNil)

				result, err := sampler.MeasurePartial(reg, []int{0})
				So(err, ShouldBeNil)
				So(reg.Norm(), ShouldAlmostEqual, 1, NormTolerance)

				bit := result.Int()
				pair := bit | bit<<1
				So(reg.Probability(pair), ShouldAlmostEqual, 0.5, 1e-12)
				So(reg.Probability(pair|4), ShouldAlmostEqual, 0.5, 1e-12)

				rest, err := sampler.MeasurePartial(reg, []int{1})
				So(err, ShouldBeNil)
				So(rest.Int(), ShouldEqual, bit)
			}
		})

		Convey("Result bits should follow the requested qubit order", func() {
			reg, _ := Allocate(3)
			So(reg.Apply(PauliX(2)), ShouldBeNil)

			result, err := sampler.MeasurePartial(reg, []int{2, 0})
			So(err, ShouldBeNil)
			So(result.Bits(), ShouldResemble, []uint8{1, 0})
		})

		Convey("Bad qubit lists should be configuration errors", func() {
			reg, _ := Allocate(2)

			_, err := sampler.MeasurePartial(reg, nil)
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)

			_, err = sampler.MeasurePartial(reg, []int{0, 0})
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)

			_, err = sampler.MeasurePartial(reg, []int{5})
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})
	})

	Convey("Given a register with no probability mass", t, func() {
		reg, _ := Allocate(2)
		reg.amplitudes[0] = 0

		Convey("Sampling should report a degenerate distribution", func() {
			_, err := NewSampler(NewSource(5)).Measure(reg)
			So(errors.Is(err, ErrDegenerateDistribution), ShouldBeTrue)

			_, err = NewSampler(NewSource(5)).MeasurePartial(reg, []int{1})
			So(errors.Is(err, ErrDegenerateDistribution), ShouldBeTrue)
		})
	})
}
