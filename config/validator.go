package config

import (
	"errors"
	"slices"
	"strings"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/validation"
)

// ValidationError reports a problem with one property.
type ValidationError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidateRepository checks repository properties. It returns every problem
// found; an empty result means the properties are valid.
func ValidateRepository(repository Properties) []ValidationError {
	var problems []ValidationError

	bucket, ok := repository.Lookup(KeyBucket)
	switch {
	case !ok || bucket == "":
		problems = append(problems, ValidationError{Key: KeyBucket, Message: "S3 bucket must be specified"})
	default:
		if err := validation.ValidateBucketName(bucket); err != nil {
			problems = append(problems, ValidationError{Key: KeyBucket, Message: reason(err)})
		}
	}

	problems = append(problems, unknownKeys(repository, KeyBucket)...)
	return problems
}

// ValidatePackage checks package properties. It returns every problem found;
// an empty result means the properties are valid.
func ValidatePackage(pkg Properties) []ValidationError {
	var problems []ValidationError

	if err := validation.ValidatePrefix(Path(pkg)); err != nil {
		problems = append(problems, ValidationError{Key: KeyPath, Message: reason(err)})
	}

	problems = append(problems, unknownKeys(pkg, KeyPath)...)
	return problems
}

func unknownKeys(props Properties, known ...string) []ValidationError {
	keys := make([]string, 0, len(props))
	for key := range props {
		if !slices.Contains(known, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	problems := make([]ValidationError, 0, len(keys))
	for _, key := range keys {
		problems = append(problems, ValidationError{Key: key, Message: "Unsupported key: " + key})
	}
	return problems
}

// reason returns the human-readable part of a validation error, without the
// operation context and sentinel.
func reason(err error) string {
	var pollErr *s3errors.Error
	if !errors.As(err, &pollErr) || pollErr.Err == nil {
		return err.Error()
	}
	msg := pollErr.Err.Error()
	if sentinel := errors.Unwrap(pollErr.Err); sentinel != nil {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}
