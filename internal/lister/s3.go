package lister

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

// MaxPageSize is the largest page S3 returns for a single ListObjectsV2 call.
const MaxPageSize = 1000

// S3Config holds configuration for an S3 lister.
type S3Config struct {
	// Region is used to build virtual-hosted retrieval URLs
	Region string

	// Endpoint is a custom endpoint; retrieval URLs become path style when set
	Endpoint string

	// PathStyle forces path-style retrieval URLs
	PathStyle bool

	// PageSize is the requested page size (1-1000, default 1000)
	PageSize int32
}

// S3 lists objects through the AWS S3 ListObjectsV2 API.
type S3 struct {
	client    s3api.S3API
	region    string
	endpoint  string
	pathStyle bool
	pageSize  int32
}

// NewS3 creates an S3 lister.
func NewS3(client s3api.S3API, cfg S3Config) *S3 {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return &S3{
		client:    client,
		region:    region,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle: cfg.PathStyle,
		pageSize:  pageSize,
	}
}

// ListObjects returns the first page of the listing of prefix in bucket.
func (l *S3) ListObjects(ctx context.Context, bucket, prefix string) (*pollertypes.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(l.pageSize),
	}

	output, err := l.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, s3errors.NewListError("list", bucket, prefix, classifyError(err))
	}

	return convertOutput(bucket, prefix, output), nil
}

// ListNextPage returns the page following page. page must be truncated.
func (l *S3) ListNextPage(ctx context.Context, page *pollertypes.Page) (*pollertypes.Page, error) {
	if page == nil || !page.Truncated || page.ContinuationToken == "" {
		return nil, s3errors.NewError("listNext", s3errors.ErrInvalidInput).
			WithMessage("page has no continuation")
	}

	input := &s3.ListObjectsV2Input{
		Bucket:            aws.String(page.Bucket),
		Prefix:            aws.String(page.Prefix),
		MaxKeys:           aws.Int32(l.pageSize),
		ContinuationToken: aws.String(page.ContinuationToken),
	}

	output, err := l.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, s3errors.NewListError("listNext", page.Bucket, page.Prefix, classifyError(err))
	}

	return convertOutput(page.Bucket, page.Prefix, output), nil
}

// BucketExists reports whether bucket exists. A bucket that exists but denies
// access to the caller counts as existing.
func (l *S3) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := l.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return true, nil
	}

	err = classifyError(err)
	switch {
	case errors.Is(err, s3errors.ErrBucketNotFound):
		return false, nil
	case errors.Is(err, s3errors.ErrAccessDenied):
		return true, nil
	}
	return false, s3errors.NewBucketError("bucketExists", bucket, err)
}

// ResolveURL returns the HTTPS retrieval URL of key in bucket.
func (l *S3) ResolveURL(bucket, key string) string {
	if l.endpoint != "" {
		return l.endpoint + "/" + bucket + "/" + escapeKey(key)
	}
	if l.pathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", l.region, bucket, escapeKey(key))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, l.region, escapeKey(key))
}

// convertOutput converts S3 output to a Page.
func convertOutput(bucket, prefix string, output *s3.ListObjectsV2Output) *pollertypes.Page {
	page := &pollertypes.Page{
		Bucket:            bucket,
		Prefix:            prefix,
		Summaries:         make([]pollertypes.ObjectSummary, 0, len(output.Contents)),
		ContinuationToken: aws.ToString(output.NextContinuationToken),
		Truncated:         aws.ToBool(output.IsTruncated),
	}

	for _, obj := range output.Contents {
		page.Summaries = append(page.Summaries, pollertypes.ObjectSummary{
			Key:          aws.ToString(obj.Key),
			LastModified: aws.ToTime(obj.LastModified),
			Size:         aws.ToInt64(obj.Size),
			ETag:         aws.ToString(obj.ETag),
		})
	}

	return page
}

// classifyError tags AWS SDK errors with the matching sentinel while keeping
// the SDK error in the chain.
func classifyError(err error) error {
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return fmt.Errorf("%w: %w", s3errors.ErrAccessDenied, err)
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", s3errors.ErrAccessDenied, err)
		}
	}

	return err
}

// escapeKey path-escapes every segment of key.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
