package calculator

import "github.com/shopspring/decimal"

// Places is the number of fractional digits every Money value carries.
const Places = 2

var (
	// ZeroTolerance is the magnitude below which a balance counts as settled.
	ZeroTolerance = decimal.RequireFromString("0.02")

	// PercentageTolerance is the allowed distance of a percentage sum from 100.
	PercentageTolerance = decimal.RequireFromString("0.01")

	hundred = decimal.NewFromInt(100)
)

// Round canonicalizes a monetary value to two decimal places.
// Ties round away from zero (2.345 -> 2.35, -2.345 -> -2.35).
func Round(value decimal.Decimal) decimal.Decimal {
	return value.Round(Places)
}

// RoundFloat rounds a float64 amount as it was written, not as it is stored
// in binary: 2.675 rounds to 2.68 even though its float64 value is 2.67499...
func RoundFloat(value float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(value))
}

// IsNearZero reports whether |value| is strictly below ZeroTolerance.
func IsNearZero(value decimal.Decimal) bool {
	return IsNearZeroWithin(value, ZeroTolerance)
}

// IsNearZeroWithin is IsNearZero with an explicit tolerance.
func IsNearZeroWithin(value, tolerance decimal.Decimal) bool {
	return value.Abs().LessThan(tolerance)
}

// Sum adds up amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
