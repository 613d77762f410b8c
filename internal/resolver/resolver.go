package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

// SourceLabel is the source name stamped on every resolved revision.
const SourceLabel = "S3"

// ObjectLister is the storage collaborator of the Resolver.
type ObjectLister interface {
	Lister

	// ResolveURL returns the retrieval URL of key in bucket.
	ResolveURL(bucket, key string) string
}

// Recorder observes finished resolutions.
type Recorder interface {
	ObserveResolution(outcome string, pages int, capped bool, elapsed time.Duration)
}

// Outcome classifies a Resolution.
type Outcome int

const (
	// OutcomeEmpty means the listing succeeded and held no objects
	OutcomeEmpty Outcome = iota

	// OutcomeFound means a latest object was found
	OutcomeFound

	// OutcomeFailed means the listing primitive failed
	OutcomeFailed
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Resolution is the full result of one latest-object scan.
type Resolution struct {
	// Latest is the latest object seen, nil when none was seen
	Latest *pollertypes.ObjectSummary

	// Pages is the number of pages fetched
	Pages int

	// Capped is set when the page cap stopped a still-truncated listing
	Capped bool

	// Undated counts summaries skipped for lacking a modification time
	Undated int

	// Err is the listing fault, if any
	Err error
}

// Outcome classifies the resolution. A fault wins over a partial result.
func (r Resolution) Outcome() Outcome {
	switch {
	case r.Err != nil:
		return OutcomeFailed
	case r.Latest != nil:
		return OutcomeFound
	default:
		return OutcomeEmpty
	}
}

// Resolver finds the latest object under a prefix and turns it into a
// PackageRevision. A Resolver holds no per-call state and is safe for
// concurrent use when its ObjectLister is.
type Resolver struct {
	lister   ObjectLister
	logger   *slog.Logger
	recorder Recorder
	maxPages int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the diagnostic logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMaxPages sets the page cap. Non-positive values keep DefaultMaxPages.
func WithMaxPages(maxPages int) Option {
	return func(r *Resolver) {
		if maxPages > 0 {
			r.maxPages = maxPages
		}
	}
}

// WithRecorder sets the observer notified after each resolution.
func WithRecorder(recorder Recorder) Option {
	return func(r *Resolver) {
		r.recorder = recorder
	}
}

// New creates a Resolver over lister.
func New(lister ObjectLister, opts ...Option) *Resolver {
	r := &Resolver{
		lister:   lister,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup scans the listing of prefix in bucket and returns the latest object
// by modification time. Ties keep the object seen first. Summaries without a
// modification time cannot anchor a later comparison and are skipped.
func (r *Resolver) Lookup(ctx context.Context, bucket, prefix string) Resolution {
	start := time.Now()
	pager := NewPager(r.lister, bucket, prefix, r.maxPages)

	var res Resolution
	for page, err := range pager.Pages(ctx) {
		if err != nil {
			var pollErr *s3errors.Error
			if !errors.As(err, &pollErr) {
				err = s3errors.NewListError("list", bucket, prefix, err)
			}
			res.Err = err
			break
		}
		for i := range page.Summaries {
			if page.Summaries[i].LastModified.IsZero() {
				res.Undated++
				continue
			}
			if isLater(&page.Summaries[i], res.Latest) {
				latest := page.Summaries[i]
				res.Latest = &latest
			}
		}
	}
	res.Pages = pager.Fetched()
	res.Capped = pager.Capped()

	if res.Undated > 0 && r.logger != nil {
		r.logger.DebugContext(ctx, "skipped objects without modification time",
			"bucket", bucket,
			"prefix", prefix,
			"count", res.Undated)
	}
	if res.Capped && r.logger != nil {
		r.logger.WarnContext(ctx, "listing page cap reached, latest object is best known",
			"bucket", bucket,
			"prefix", prefix,
			"pages", res.Pages)
	}
	if r.recorder != nil {
		r.recorder.ObserveResolution(res.Outcome().String(), res.Pages, res.Capped, time.Since(start))
	}

	return res
}

// FindLatest returns the latest object under prefix, or nil when the prefix
// holds no objects. A listing fault is returned as an error.
func (r *Resolver) FindLatest(ctx context.Context, bucket, prefix string) (*pollertypes.ObjectSummary, error) {
	res := r.Lookup(ctx, bucket, prefix)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Latest, nil
}

// ResolveRevision returns the revision of the latest object under prefix.
// When nothing is found, or the listing fails, the empty revision is returned.
// Faults are only logged.
func (r *Resolver) ResolveRevision(ctx context.Context, bucket, prefix string) pollertypes.PackageRevision {
	res := r.Lookup(ctx, bucket, prefix)

	switch res.Outcome() {
	case OutcomeFailed:
		if r.logger != nil {
			r.logger.WarnContext(ctx, "failed to get latest revision",
				"bucket", bucket,
				"prefix", prefix,
				"error", res.Err)
		}
		return pollertypes.PackageRevision{}
	case OutcomeEmpty:
		if r.logger != nil {
			r.logger.DebugContext(ctx, "no objects under prefix",
				"bucket", bucket,
				"prefix", prefix)
		}
		return pollertypes.PackageRevision{}
	}

	latest := res.Latest
	if r.logger != nil {
		r.logger.InfoContext(ctx, "latest object",
			"key", latest.Key,
			"modified", latest.LastModified)
	}
	return r.revisionOf(bucket, latest)
}

// ResolveRevisionSince returns the latest revision under prefix when it is
// strictly newer than previous, and nil otherwise. previous must carry a
// timestamp; ErrMissingBaseline is returned when it does not.
func (r *Resolver) ResolveRevisionSince(
	ctx context.Context,
	bucket, prefix string,
	previous pollertypes.PackageRevision,
) (*pollertypes.PackageRevision, error) {
	if !previous.HasTimestamp() {
		return nil, s3errors.NewListError("resolveRevisionSince", bucket, prefix, s3errors.ErrMissingBaseline)
	}

	current := r.ResolveRevision(ctx, bucket, prefix)
	if current.Timestamp.After(previous.Timestamp) {
		return &current, nil
	}
	return nil, nil
}

func (r *Resolver) revisionOf(bucket string, obj *pollertypes.ObjectSummary) pollertypes.PackageRevision {
	return pollertypes.PackageRevision{
		RevisionKey:  obj.Key,
		Timestamp:    obj.LastModified,
		SourceLabel:  SourceLabel,
		Comment:      Comment(obj),
		TrackbackURL: r.lister.ResolveURL(bucket, obj.Key),
	}
}

// Comment renders the human-readable revision comment for obj.
func Comment(obj *pollertypes.ObjectSummary) string {
	return fmt.Sprintf("Object at %s with date %s", obj.Key, obj.LastModified.UTC().Format(time.UnixDate))
}

// isLater reports whether candidate replaces current as the latest object.
func isLater(candidate, current *pollertypes.ObjectSummary) bool {
	return current == nil || candidate.LastModified.After(current.LastModified)
}
