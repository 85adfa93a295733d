package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateSplits checks caller-supplied splits against an expense total.
// It never modifies its input.
//
//   - No splits: valid, the caller is expected to generate an equal split.
//   - Any entry with a percentage: every entry needs one in [0, 100], the
//     percentages must be within PercentageTolerance of 100, and the rounded amounts derived from
//     them must be within ZeroTolerance of total.
//   - Otherwise the plain amounts must be within ZeroTolerance of total.
func ValidateSplits(total decimal.Decimal, splits []SplitEntry) error {
	if len(splits) == 0 {
		return nil
	}
	total = Round(total)

	withPct := 0
	for _, s := range splits {
		if s.Percentage != nil {
			withPct++
		}
	}

	if withPct > 0 {
		if withPct != len(splits) {
			return fmt.Errorf("%w: %d of %d splits have no percentage",
				ErrPercentageSumMismatch, len(splits)-withPct, len(splits))
		}

		pctSum, derived := decimal.Zero, decimal.Zero
		for _, s := range splits {
			if s.Percentage.IsNegative() || s.Percentage.GreaterThan(hundred) {
				return fmt.Errorf("%w: %s has %s%%, want 0 to 100",
					ErrPercentageSumMismatch, s.MemberID, s.Percentage.String())
			}
			pctSum = pctSum.Add(*s.Percentage)
			derived = derived.Add(percentageOf(total, *s.Percentage))
		}
		if pctSum.Sub(hundred).Abs().GreaterThan(PercentageTolerance) {
			return fmt.Errorf("%w: got %s%%", ErrPercentageSumMismatch, pctSum.String())
		}
		if drift := derived.Sub(total); drift.Abs().GreaterThan(ZeroTolerance) {
			return fmt.Errorf("%w: derived amounts sum to %s, total is %s",
				ErrPercentageSumMismatch, derived.StringFixed(Places), total.StringFixed(Places))
		}
		return nil
	}

	amounts := make([]decimal.Decimal, len(splits))
	for i, s := range splits {
		amounts[i] = Round(s.Amount)
	}
	if sum := Sum(amounts...); sum.Sub(total).Abs().GreaterThan(ZeroTolerance) {
		return fmt.Errorf("%w: splits sum to %s, total is %s",
			ErrSplitSumMismatch, sum.StringFixed(Places), total.StringFixed(Places))
	}
	return nil
}
