package qsynth

import (
	"math"
	"strconv"
	"strings"
)

// shapeEpsilon keeps the logarithms in the shaping transforms finite.
const shapeEpsilon = 1e-10

// LinearRange maps raw onto [lo, hi] by modulo.
func LinearRange(raw, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + raw%(hi-lo+1)
}

// ScaledRange stretches raw ∈ [0, 2^width) linearly over [lo, hi]. It is monotone in raw.
func ScaledRange(raw, width, lo, hi int) int {
	if hi <= lo || width <= 0 {
		return lo
	}

	top := float64(int(1)<<width - 1)
	value := lo + int(math.Round(float64(raw)/top*float64(hi-lo)))

	return clampInt(value, lo, hi)
}

// Uniform turns raw ∈ [0, 2^width) into u ∈ [0, 1).
func Uniform(raw, width int) float64 {
	return float64(raw) / float64(int(1)<<width)
}

/*
BellShaped is a one-input take on Box–Muller. It deliberately uses the same u for both
the radius and the angle, which is not the textbook transform; generated data depends on
this exact shape.
*/
func BellShaped(u, mean, std float64, lo, hi int) int {
	g := math.Cos(2*math.Pi*u) * math.Sqrt(-2*math.Log(u+shapeEpsilon))
	if math.IsNaN(g) {
		// u within ε of 1 puts the logarithm above zero.
		g = 0
	}
	return clampInt(int(math.Round(mean+g*std)), lo, hi)
}

// Exponential skews u towards offset with the given scale, then clamps to [lo, hi].
func Exponential(u, scale, offset float64, lo, hi int) int {
	x := -math.Log(1-u+shapeEpsilon)*scale + offset
	return clampInt(int(math.Round(x)), lo, hi)
}

var isbnWeights = [12]int{1, 3, 1, 3, 1, 3, 1, 3, 1, 3, 1, 3}

// ISBN13CheckDigit computes (10 - (Σ dᵢ·wᵢ mod 10)) mod 10 with weights 1,3,1,3...
func ISBN13CheckDigit(digits [12]int) int {
	var sum int
	for i, d := range digits {
		sum += d * isbnWeights[i]
	}
	return (10 - sum%10) % 10
}

// FormatISBN13 appends the check digit and renders the 13-digit code.
func FormatISBN13(digits [12]int) string {
	var sb strings.Builder
	sb.Grow(13)
	for _, d := range digits {
		sb.WriteByte(byte('0' + d))
	}
	sb.WriteString(strconv.Itoa(ISBN13CheckDigit(digits)))
	return sb.String()
}

// ValidISBN13 reports whether code is 13 digits with a correct check digit.
func ValidISBN13(code string) bool {
	if len(code) != 13 {
		return false
	}

	var digits [12]int
	for i := 0; i < 13; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
		if i < 12 {
			digits[i] = int(code[i] - '0')
		}
	}

	return ISBN13CheckDigit(digits) == int(code[12]-'0')
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
