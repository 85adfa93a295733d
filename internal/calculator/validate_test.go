package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pctSplits(pcts ...string) []SplitEntry {
	out := make([]SplitEntry, len(pcts))
	for i, p := range pcts {
		pct := dec(p)
		out[i] = SplitEntry{MemberID: string(rune('a' + i)), Percentage: &pct}
	}
	return out
}

func amountSplits(values ...string) []SplitEntry {
	out := make([]SplitEntry, len(values))
	for i, v := range values {
		out[i] = SplitEntry{MemberID: string(rune('a' + i)), Amount: dec(v)}
	}
	return out
}

func TestValidateSplits(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		splits  []SplitEntry
		wantErr error
	}{
		{name: "no splits", total: "50", splits: nil},
		{name: "percentages sum to 100", total: "150.00", splits: pctSplits("40", "35", "25")},
		{name: "thirds on 100", total: "100.00", splits: pctSplits("33.3", "33.3", "33.4")},
		{name: "drift of one cent is accepted", total: "10.00", splits: pctSplits("33.33", "33.33", "33.34")},
		{name: "percentages within tolerance of 100", total: "100.00", splits: pctSplits("50", "49.995")},
		{
			name:    "percentages over 100",
			total:   "100.00",
			splits:  pctSplits("50", "50", "10"),
			wantErr: ErrPercentageSumMismatch,
		},
		{
			name:    "percentages under 100",
			total:   "20.00",
			splits:  pctSplits("50", "40"),
			wantErr: ErrPercentageSumMismatch,
		},
		{
			// seven entries round 0.014 down to 0.01 and one rounds 0.002 to 0.00
			name:    "derived amounts drift beyond tolerance",
			total:   "0.10",
			splits:  pctSplits("14", "14", "14", "14", "14", "14", "14", "2"),
			wantErr: ErrPercentageSumMismatch,
		},
		{
			// sums to 100 but would book a negative share
			name:    "percentage above 100",
			total:   "100.00",
			splits:  pctSplits("150", "-50"),
			wantErr: ErrPercentageSumMismatch,
		},
		{
			name:    "negative percentage",
			total:   "100.00",
			splits:  pctSplits("-0.01", "100.01"),
			wantErr: ErrPercentageSumMismatch,
		},
		{name: "single member at 100", total: "12.34", splits: pctSplits("100")},
		{name: "zero percentage share", total: "10.00", splits: pctSplits("0", "100")},
		{
			name:    "some splits missing percentage",
			total:   "10.00",
			splits:  append(pctSplits("100"), SplitEntry{MemberID: "z", Amount: dec("0")}),
			wantErr: ErrPercentageSumMismatch,
		},
		{name: "amounts match total", total: "30.00", splits: amountSplits("10.00", "20.00")},
		{name: "amounts within tolerance", total: "30.00", splits: amountSplits("10.00", "20.02")},
		{
			name:    "amounts off by more than tolerance",
			total:   "30.00",
			splits:  amountSplits("10.00", "20.03"),
			wantErr: ErrSplitSumMismatch,
		},
		{
			name:    "amounts far short",
			total:   "30.00",
			splits:  amountSplits("5.00"),
			wantErr: ErrSplitSumMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplits(dec(tt.total), tt.splits)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateSplitsDoesNotMutate(t *testing.T) {
	splits := amountSplits("10.004", "19.996")
	require.NoError(t, ValidateSplits(dec("30"), splits))
	assertMoney(t, "10.004", splits[0].Amount)
	assertMoney(t, "19.996", splits[1].Amount)
}

func TestGeneratedPercentageSplitsPassValidation(t *testing.T) {
	participants := withPercentages([]string{"a", "b", "c"}, "33.33", "33.33", "33.34")
	splits, err := GenerateSplits(dec("10.00"), SplitModePercentage, participants)
	require.NoError(t, err)

	drift := Sum(amounts(splits)...).Sub(dec("10.00")).Abs()
	assert.True(t, drift.IsPositive(), "generator must not correct percentage drift")
	assert.NoError(t, ValidateSplits(dec("10.00"), splits))
}
