package lister

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

// MinioCore is the subset of minio.Core used by the MinIO lister.
type MinioCore interface {
	ListObjectsV2(
		bucketName, objectPrefix, startAfter, continuationToken, delimiter string,
		maxkeys int,
	) (minio.ListBucketV2Result, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// Minio lists objects on MinIO and other S3-compatible servers through minio-go.
type Minio struct {
	core     MinioCore
	endpoint string
	pageSize int
}

// NewMinio creates a MinIO lister. endpoint is the base URL used for
// path-style retrieval URLs.
func NewMinio(core MinioCore, endpoint *url.URL, pageSize int) *Minio {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	base := ""
	if endpoint != nil {
		base = strings.TrimRight(endpoint.String(), "/")
	}
	return &Minio{
		core:     core,
		endpoint: base,
		pageSize: pageSize,
	}
}

// ListObjects returns the first page of the listing of prefix in bucket.
func (l *Minio) ListObjects(ctx context.Context, bucket, prefix string) (*pollertypes.Page, error) {
	return l.list(ctx, "list", bucket, prefix, "")
}

// ListNextPage returns the page following page. page must be truncated.
func (l *Minio) ListNextPage(ctx context.Context, page *pollertypes.Page) (*pollertypes.Page, error) {
	if page == nil || !page.Truncated || page.ContinuationToken == "" {
		return nil, s3errors.NewError("listNext", s3errors.ErrInvalidInput).
			WithMessage("page has no continuation")
	}
	return l.list(ctx, "listNext", page.Bucket, page.Prefix, page.ContinuationToken)
}

func (l *Minio) list(ctx context.Context, op, bucket, prefix, token string) (*pollertypes.Page, error) {
	// minio.Core listing takes no context; honour cancellation between pages.
	if err := ctx.Err(); err != nil {
		return nil, s3errors.NewListError(op, bucket, prefix, err)
	}

	result, err := l.core.ListObjectsV2(bucket, prefix, "", token, "", l.pageSize)
	if err != nil {
		return nil, s3errors.NewListError(op, bucket, prefix, classifyMinioError(err))
	}

	page := &pollertypes.Page{
		Bucket:            bucket,
		Prefix:            prefix,
		Summaries:         make([]pollertypes.ObjectSummary, 0, len(result.Contents)),
		ContinuationToken: result.NextContinuationToken,
		Truncated:         result.IsTruncated,
	}
	for _, obj := range result.Contents {
		page.Summaries = append(page.Summaries, pollertypes.ObjectSummary{
			Key:          obj.Key,
			LastModified: obj.LastModified,
			Size:         obj.Size,
			ETag:         obj.ETag,
		})
	}
	return page, nil
}

// BucketExists reports whether bucket exists. A bucket that exists but denies
// access to the caller counts as existing.
func (l *Minio) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := l.core.BucketExists(ctx, bucket)
	if err == nil {
		return exists, nil
	}

	err = classifyMinioError(err)
	switch {
	case errors.Is(err, s3errors.ErrBucketNotFound):
		return false, nil
	case errors.Is(err, s3errors.ErrAccessDenied):
		return true, nil
	}
	return false, s3errors.NewBucketError("bucketExists", bucket, err)
}

// ResolveURL returns the path-style retrieval URL of key in bucket.
func (l *Minio) ResolveURL(bucket, key string) string {
	return l.endpoint + "/" + bucket + "/" + escapeKey(key)
}

// classifyMinioError tags minio-go errors with the matching sentinel.
func classifyMinioError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
	case resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", s3errors.ErrAccessDenied, err)
	}
	return err
}
