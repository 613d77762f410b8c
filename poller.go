package s3poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/config"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/resolver"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

// Check messages reported by the connectivity checks.
const (
	MsgBucketFound     = "Bucket found"
	MsgBucketNotFound  = "Bucket not found"
	MsgObjectsFound    = "Objects found on path"
	MsgEmptyFolder     = "Could not find objects in path. Folder can't be empty."
	msgBucketLookupErr = "Could not find bucket. [%v]"
	msgPathLookupErr   = "Could not find path '%s' in bucket '%s'. [%v]"
)

// Store is a storage backend the Poller can query.
type Store interface {
	resolver.ObjectLister

	// BucketExists reports whether bucket exists
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// Poller checks connectivity to a bucket and resolves the latest object under
// a prefix. A Poller is safe for concurrent use when its Store is.
type Poller struct {
	store    Store
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// CheckRepositoryConnection checks that the bucket named by repo exists.
func (p *Poller) CheckRepositoryConnection(ctx context.Context, repo config.Properties) pollertypes.CheckResult {
	bucket, err := config.Bucket(repo)
	if err != nil {
		return pollertypes.Failure(fmt.Sprintf(msgBucketLookupErr, err))
	}

	exists, err := p.store.BucketExists(ctx, bucket)
	if err != nil {
		if p.logger != nil {
			p.logger.WarnContext(ctx, "bucket check failed", "bucket", bucket, "error", err)
		}
		return pollertypes.Failure(fmt.Sprintf(msgBucketLookupErr, err))
	}
	if !exists {
		return pollertypes.Failure(MsgBucketNotFound)
	}
	return pollertypes.Success(MsgBucketFound)
}

// CheckPackageConnection checks that the prefix named by pkg holds at least
// one object in the bucket named by repo. Only the first listing page is read.
func (p *Poller) CheckPackageConnection(
	ctx context.Context,
	pkg, repo config.Properties,
) pollertypes.CheckResult {
	path := config.Path(pkg)
	bucket, err := config.Bucket(repo)
	if err != nil {
		return pollertypes.Failure(fmt.Sprintf(msgPathLookupErr, path, bucket, err))
	}

	page, err := p.store.ListObjects(ctx, bucket, path)
	if err != nil {
		if p.logger != nil {
			p.logger.WarnContext(ctx, "path check failed", "bucket", bucket, "prefix", path, "error", err)
		}
		return pollertypes.Failure(fmt.Sprintf(msgPathLookupErr, path, bucket, err))
	}
	if page == nil || len(page.Summaries) == 0 {
		return pollertypes.Failure(MsgEmptyFolder)
	}
	return pollertypes.Success(MsgObjectsFound)
}

// LatestRevision returns the revision of the most recently modified object
// under the prefix named by pkg. The empty revision is returned when the prefix
// holds no objects or the listing fails. An error is only returned for an
// unusable repository configuration.
func (p *Poller) LatestRevision(
	ctx context.Context,
	pkg, repo config.Properties,
) (pollertypes.PackageRevision, error) {
	bucket, err := config.Bucket(repo)
	if err != nil {
		return pollertypes.PackageRevision{}, err
	}
	return p.resolver.ResolveRevision(ctx, bucket, config.Path(pkg)), nil
}

// LatestRevisionSince returns the latest revision when it is strictly newer
// than previous, and nil otherwise. previous must carry a timestamp.
func (p *Poller) LatestRevisionSince(
	ctx context.Context,
	pkg, repo config.Properties,
	previous pollertypes.PackageRevision,
) (*pollertypes.PackageRevision, error) {
	bucket, err := config.Bucket(repo)
	if err != nil {
		return nil, err
	}
	return p.resolver.ResolveRevisionSince(ctx, bucket, config.Path(pkg), previous)
}

// FindLatest returns the most recently modified object under prefix in
// bucket, or nil when the prefix is empty. Unlike LatestRevision, listing
// faults are returned.
func (p *Poller) FindLatest(
	ctx context.Context,
	bucket, prefix string,
) (*pollertypes.ObjectSummary, error) {
	return p.resolver.FindLatest(ctx, bucket, prefix)
}
