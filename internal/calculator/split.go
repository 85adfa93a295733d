package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitMode selects how an expense total is divided among members.
type SplitMode string

const (
	SplitModeEqual      SplitMode = "equal"
	SplitModePercentage SplitMode = "percentage"
)

// ParseSplitMode validates a raw split mode string.
func ParseSplitMode(s string) (SplitMode, error) {
	switch mode := SplitMode(s); mode {
	case SplitModeEqual, SplitModePercentage:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSplitMode, s)
	}
}

// SplitEntry is one member's share of an expense.
type SplitEntry struct {
	MemberID string
	Amount   decimal.Decimal
	// Percentage is nil for splits that are not percentage based.
	Percentage *decimal.Decimal
}

// Participant is an input to GenerateSplits. Percentage is ignored in equal mode.
type Participant struct {
	MemberID   string
	Percentage decimal.Decimal
}

// RemainderPolicy hands out the cents left over when an equal split does not
// divide the total evenly. shares holds one base amount per member in caller
// order and is modified in place; remainder may be negative.
type RemainderPolicy func(shares []decimal.Decimal, remainder decimal.Decimal)

// FirstMemberAbsorbs gives the whole remainder to the first member.
// It is deterministic but favours whoever the caller lists first.
func FirstMemberAbsorbs(shares []decimal.Decimal, remainder decimal.Decimal) {
	if len(shares) == 0 {
		return
	}
	shares[0] = Round(shares[0].Add(remainder))
}

// RoundRobinCents hands the remainder out one cent at a time in member order.
func RoundRobinCents(shares []decimal.Decimal, remainder decimal.Decimal) {
	if len(shares) == 0 {
		return
	}
	cent := decimal.New(1, -Places)
	if remainder.IsNegative() {
		cent = cent.Neg()
	}
	steps := remainder.Div(cent).IntPart()
	for i := int64(0); i < steps; i++ {
		idx := int(i % int64(len(shares)))
		shares[idx] = shares[idx].Add(cent)
	}
}

// Splitter generates per-member split amounts.
type Splitter struct {
	Remainder RemainderPolicy
}

// NewSplitter returns a Splitter using the given remainder policy,
// or FirstMemberAbsorbs when policy is nil.
func NewSplitter(policy RemainderPolicy) *Splitter {
	if policy == nil {
		policy = FirstMemberAbsorbs
	}
	return &Splitter{Remainder: policy}
}

// GenerateSplits divides total among participants using the default Splitter.
func GenerateSplits(total decimal.Decimal, mode SplitMode, participants []Participant) ([]SplitEntry, error) {
	return NewSplitter(nil).Generate(total, mode, participants)
}

// Generate divides total among participants, returning entries in input order.
//
// Equal mode: every member gets round(total/N) and the remainder policy
// distributes total - base*N, so the entries always sum to total exactly.
//
// Percentage mode: each member gets round(percentage/100 * total). Rounding
// drift is NOT redistributed; ValidateSplits decides whether it is acceptable.
func (s *Splitter) Generate(total decimal.Decimal, mode SplitMode, participants []Participant) ([]SplitEntry, error) {
	total = Round(total)

	switch mode {
	case SplitModeEqual:
		if len(participants) == 0 {
			return nil, ErrEmptyGroupDivision
		}
		n := decimal.NewFromInt(int64(len(participants)))
		base := Round(total.Div(n))

		shares := make([]decimal.Decimal, len(participants))
		for i := range shares {
			shares[i] = base
		}
		s.Remainder(shares, total.Sub(base.Mul(n)))

		splits := make([]SplitEntry, len(participants))
		for i, p := range participants {
			splits[i] = SplitEntry{MemberID: p.MemberID, Amount: shares[i]}
		}
		return splits, nil

	case SplitModePercentage:
		splits := make([]SplitEntry, len(participants))
		for i, p := range participants {
			pct := p.Percentage
			splits[i] = SplitEntry{
				MemberID:   p.MemberID,
				Amount:     percentageOf(total, pct),
				Percentage: &pct,
			}
		}
		return splits, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitMode, mode)
	}
}

func percentageOf(total, pct decimal.Decimal) decimal.Decimal {
	return Round(pct.Div(hundred).Mul(total))
}
