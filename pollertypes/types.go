// Package pollertypes provides shared type definitions for the s3poller module.
package pollertypes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
)

// ObjectSummary is a single entry of a bucket listing.
type ObjectSummary struct {
	// Key is the object key (path)
	Key string

	// LastModified is when the object was last modified
	LastModified time.Time

	// Size is the object size in bytes
	Size int64

	// ETag is the entity tag for the object
	ETag string
}

// Page is one page of a prefix listing. A Page only lives for the duration of
// a single resolution and is handed back to the lister to fetch its successor.
type Page struct {
	// Bucket and Prefix identify the listing this page belongs to
	Bucket string
	Prefix string

	// Summaries are the objects on this page, in listing order
	Summaries []ObjectSummary

	// ContinuationToken is the opaque token for the next page, empty when there is none
	ContinuationToken string

	// Truncated reports whether more pages follow
	Truncated bool
}

// PackageRevision describes the latest object under a prefix in the shape a
// package-material poller reports it. The zero value is the "no revision" state.
type PackageRevision struct {
	// RevisionKey is the key of the object the revision points at
	RevisionKey string

	// Timestamp is the object's last modification time; zero when absent
	Timestamp time.Time

	// SourceLabel names the system the revision came from
	SourceLabel string

	// Comment is a human-readable description of the revision
	Comment string

	// TrackbackURL is the retrieval URL of the object
	TrackbackURL string
}

// HasTimestamp reports whether the revision carries a modification time.
func (r PackageRevision) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// IsEmpty reports whether r is the "no revision" state.
func (r PackageRevision) IsEmpty() bool {
	return r == PackageRevision{}
}

// Status is the outcome of a connectivity check.
type Status string

const (
	// StatusSuccess marks a passed check
	StatusSuccess Status = "success"

	// StatusFailure marks a failed check
	StatusFailure Status = "failure"
)

// CheckResult is the result of a repository or package connectivity check.
type CheckResult struct {
	Status   Status
	Messages []string
}

// Success builds a passed CheckResult.
func Success(messages ...string) CheckResult {
	return CheckResult{Status: StatusSuccess, Messages: messages}
}

// Failure builds a failed CheckResult.
func Failure(messages ...string) CheckResult {
	return CheckResult{Status: StatusFailure, Messages: messages}
}

// OK reports whether the check passed.
func (r CheckResult) OK() bool {
	return r.Status == StatusSuccess
}

// ClientConfig holds configuration for Poller construction.
type ClientConfig struct {
	// Region is the AWS region
	Region string

	// Endpoint is a custom endpoint URL for S3-compatible services
	Endpoint string

	// ForcePathStyle forces path-style addressing
	ForcePathStyle bool

	// MaxRetries is the SDK retry attempt count
	MaxRetries int

	// Timeout bounds each HTTP request made by the SDK
	Timeout time.Duration

	// CustomAWSConfig replaces default credential chain loading
	CustomAWSConfig *aws.Config

	// CustomHTTPClient replaces the SDK HTTP client
	CustomHTTPClient *http.Client

	// AccessKey and SecretKey are static credentials for the MinIO backend
	AccessKey string
	SecretKey string

	// Secure enables TLS for the MinIO backend
	Secure bool

	// Logger receives diagnostics; nil disables logging
	Logger *slog.Logger

	// MaxPages caps the number of listing pages scanned per resolution
	MaxPages int

	// Registerer receives the poller's Prometheus collectors; nil disables metrics
	Registerer prometheus.Registerer
}

// Option configures a ClientConfig.
type Option func(*ClientConfig)
