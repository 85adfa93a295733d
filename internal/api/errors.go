package api

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
)

// toConnectError maps service and storage errors onto Connect codes.
func toConnectError(err error) error {
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.CodeAlreadyExists
	case errors.Is(err, service.ErrOutstandingBalance), errors.Is(err, storage.ErrNotMember):
		return connect.CodeFailedPrecondition
	case errors.Is(err, ErrValidationFailed),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, calculator.ErrSplitSumMismatch),
		errors.Is(err, calculator.ErrPercentageSumMismatch),
		errors.Is(err, calculator.ErrUnknownSplitMode),
		errors.Is(err, calculator.ErrEmptyGroupDivision):
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}
