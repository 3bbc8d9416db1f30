package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitbill/internal/bill"
	"github.com/mmynk/splitbill/internal/scan"
	"github.com/mmynk/splitbill/internal/storage"
)

// scanClassHeader carries the scan failure class so clients can pick a message.
const scanClassHeader = "Scan-Failure-Class"

// toConnectError maps domain errors to Connect codes. Unknown errors are
// logged and reported as internal.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var validationErrs validator.ValidationErrors
	var upstream *scan.UpstreamError

	switch {
	case errors.As(err, &validationErrs):
		return connect.NewError(connect.CodeInvalidArgument, describeValidation(validationErrs))
	case errors.Is(err, bill.ErrValidation), errors.Is(err, scan.ErrInvalidImage):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, bill.ErrItemNotFound), errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, scan.ErrEmptyResult):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, scan.ErrPayloadTooLarge):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.As(err, &upstream):
		code := connect.CodeUnavailable
		if upstream.Class == scan.ClassTimeout {
			code = connect.CodeDeadlineExceeded
		}
		cErr := connect.NewError(code, err)
		cErr.Meta().Set(scanClassHeader, string(upstream.Class))
		return cErr
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		slog.Error("Unhandled service error", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}

// describeValidation lists the failing fields and rules.
func describeValidation(errs validator.ValidationErrors) error {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", bill.ErrValidation, strings.Join(parts, ", "))
}
