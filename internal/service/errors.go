package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/famiglia/internal/auth"
	"github.com/mmynk/famiglia/internal/calculator"
	"github.com/mmynk/famiglia/internal/receipt"
	"github.com/mmynk/famiglia/internal/storage"
)

var (
	errInternal  = errors.New("internal error")
	errNotMember = errors.New("not a member of this group")
	errNotOwner  = errors.New("only the group owner can change this group")
)

// ValidationError describes a request field that failed validation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func newValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// ValidationErrors collects every problem found in a request.
type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (ve *ValidationErrors) Add(field, format string, args ...any) {
	ve.Errors = append(ve.Errors, newValidationError(field, format, args...))
}

// Merge appends the errors of another ValidationErrors, or err itself.
func (ve *ValidationErrors) Merge(err error) {
	if err == nil {
		return
	}
	var other *ValidationErrors
	if errors.As(err, &other) {
		ve.Errors = append(ve.Errors, other.Errors...)
		return
	}
	ve.Errors = append(ve.Errors, err)
}

// Err returns nil when nothing was added.
func (ve *ValidationErrors) Err() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// invalidArgument lists the domain errors that describe bad input.
var invalidArgument = []error{
	calculator.ErrInvalidFrequencyValue,
	calculator.ErrUnknownFrequency,
	calculator.ErrInvalidQuota,
	calculator.ErrQuotaCeilingExceeded,
	receipt.ErrEmptyImage,
	receipt.ErrImageTooLarge,
	receipt.ErrUnsupportedType,
	auth.ErrInvalidEmail,
	auth.ErrWeakPassword,
}

// toConnectError maps an error to a Connect error code. Errors without a
// client-facing meaning are logged and replaced by errInternal.
func toConnectError(ctx context.Context, logger *slog.Logger, op string, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var validationErrors *ValidationErrors
	if IsValidationError(err) || errors.As(err, &validationErrors) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	for _, target := range invalidArgument {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicate), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	logger.ErrorContext(ctx, op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}
