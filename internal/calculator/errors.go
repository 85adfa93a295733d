package calculator

import "errors"

var (
	// ErrSplitSumMismatch means plain split amounts do not add up to the expense total.
	ErrSplitSumMismatch = errors.New("split amounts do not add up to the expense total")

	// ErrPercentageSumMismatch means percentages do not add up to 100, or the amounts
	// derived from them drift too far from the expense total.
	ErrPercentageSumMismatch = errors.New("split percentages do not add up to 100%")

	// ErrUnknownSplitMode means a split mode other than equal or percentage was given.
	ErrUnknownSplitMode = errors.New("unknown split mode")

	// ErrEmptyGroupDivision means an equal split was requested across zero members.
	ErrEmptyGroupDivision = errors.New("cannot split equally across zero members")

	// ErrUnknownMember means a ledger record references someone outside the group
	// and still carries an unsettled amount.
	ErrUnknownMember = errors.New("ledger references unknown member")
)
