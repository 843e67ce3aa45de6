package qsynth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRangeMappers(t *testing.T) {
	Convey("Given every raw value of a 10-bit register", t, func() {
		const width = 10

		Convey("LinearRange should stay within [lo, hi]", func() {
			for raw := 0; raw < 1<<width; raw++ {
				v := LinearRange(raw, 18, 80)
				So(v >= 18 && v <= 80, ShouldBeTrue)
			}
			So(LinearRange(63, 18, 80), ShouldEqual, 18)
			So(LinearRange(5, 3, 3), ShouldEqual, 3)
		})

		Convey("ScaledRange should stay within [lo, hi] and never decrease", func() {
			previous := 0
			for raw := 0; raw < 1<<width; raw++ {
				v := ScaledRange(raw, width, 20000, 150000)
				So(v >= 20000 && v <= 150000, ShouldBeTrue)
				So(v, ShouldBeGreaterThanOrEqualTo, previous)
				previous = v
			}
			So(ScaledRange(0, width, 20000, 150000), ShouldEqual, 20000)
			So(ScaledRange(1<<width-1, width, 20000, 150000), ShouldEqual, 150000)
		})

		Convey("BellShaped and Exponential should stay within [lo, hi]", func() {
			for raw := 0; raw < 1<<width; raw++ {
				u := Uniform(raw, width)
				So(u >= 0 && u < 1, ShouldBeTrue)

				b := BellShaped(u, 40, 12, 18, 80)
				So(b >= 18 && b <= 80, ShouldBeTrue)

				e := Exponential(u, 25, 0, 0, 125)
				So(e >= 0 && e <= 125, ShouldBeTrue)
			}

			So(BellShaped(0.999999999999, 40, 12, 18, 80), ShouldEqual, 40)
		})

		Convey("BellShaped should follow its single-input formula", func() {
			// u = 0.5: cos(π) · sqrt(-2·ln(0.5)) ≈ -1.1774
			So(BellShaped(0.5, 40, 10, 0, 100), ShouldEqual, 28)
			// u = 0.25: cos(π/2) = 0, value sits on the mean
			So(BellShaped(0.25, 40, 10, 0, 100), ShouldEqual, 40)
		})
	})
}

func TestISBN13(t *testing.T) {
	Convey("Given twelve digits", t, func() {
		Convey("It should compute the published check digit", func() {
			digits := [12]int{9, 7, 8, 0, 3, 0, 6, 4, 0, 6, 1, 5}
			So(ISBN13CheckDigit(digits), ShouldEqual, 7)
			So(FormatISBN13(digits), ShouldEqual, "9780306406157")
			So(ValidISBN13("9780306406157"), ShouldBeTrue)
		})

		Convey("It should reject malformed codes", func() {
			So(ValidISBN13("9780306406158"), ShouldBeFalse)
			So(ValidISBN13("978030640615"), ShouldBeFalse)
			So(ValidISBN13("97803064061x7"), ShouldBeFalse)
		})

		Convey("Every generated code should satisfy the checksum", func() {
			src := NewSource(13)
			for i := 0; i < 5000; i++ {
				var digits [12]int
				for j := range digits {
					digits[j] = int(src.Uint64() % 10)
				}
				So(ValidISBN13(FormatISBN13(digits)), ShouldBeTrue)
			}
		})
	})
}
