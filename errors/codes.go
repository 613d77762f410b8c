package errors

import (
	"context"
	"errors"
)

// ErrorCode classifies an error for callers that map failures onto exit codes
// or protocol statuses. Codes are strings for debuggability.
type ErrorCode string

const (
	// CodeNotFound indicates a requested bucket does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeForbidden indicates the credentials lack permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// CodeOf returns the ErrorCode that best describes err.
// A nil error has no code and yields the empty string.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case IsInvalidInput(err):
		return CodeInvalidInput
	case IsBucketNotFound(err):
		return CodeNotFound
	case IsAccessDenied(err):
		return CodeForbidden
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	default:
		return CodeUnknown
	}
}
