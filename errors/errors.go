// Package errors provides error types and handling for S3 polling operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a polling operation error with context about the operation that failed.
// It wraps the underlying storage error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "list", "bucketExists", "resolveRevisionSince")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Prefix is the key prefix being polled (if applicable)
	Prefix string

	// Err is the underlying error from the storage SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Prefix != "" {
		return fmt.Sprintf("s3poller.%s %s/%s: %v", e.Op, e.Bucket, e.Prefix, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3poller.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("s3poller.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithPrefix adds prefix context to an existing error.
func (e *Error) WithPrefix(prefix string) *Error {
	e.Prefix = prefix
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewListError creates a new Error with bucket and prefix context.
func NewListError(op, bucket, prefix string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Prefix: prefix,
		Err:    err,
	}
}

// Sentinel errors for common polling failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("s3poller: bucket not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3poller: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3poller: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3poller: invalid bucket name")

	// ErrInvalidConfig indicates a missing or malformed configuration property
	ErrInvalidConfig = errors.New("s3poller: invalid configuration")

	// ErrMissingBaseline indicates a "since" comparison against a revision without a timestamp
	ErrMissingBaseline = errors.New("s3poller: previous revision has no timestamp")

	// ErrTimeout indicates that the operation timed out
	ErrTimeout = errors.New("s3poller: operation timeout")
)

// IsBucketNotFound checks if an error indicates that a bucket was not found.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input or configuration.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingBaseline)
}
