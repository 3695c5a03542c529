package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrRecoveryFailed       = errors.New("structured-text recovery failed")
	ErrNotFound             = errors.New("job not found")
	ErrAlreadyProcessing    = errors.New("job already processing")
	ErrUpstreamFailure      = errors.New("upstream failure")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDatabase             = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// gRPC error helpers for the transport layer sitting in front of the core.
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func AlreadyProcessingError(message string) error {
	return status.Error(codes.FailedPrecondition, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// ToStatusError maps core sentinel errors onto gRPC status codes so the
// transport never has to inspect error strings.
func ToStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, ErrAlreadyProcessing):
		return AlreadyProcessingError(err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedMediaType):
		return InvalidArgumentError(err.Error())
	default:
		return InternalError(err.Error())
	}
}
