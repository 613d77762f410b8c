package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockBuilder provides a fluent interface for building MockS3Client instances.
type MockBuilder struct {
	client *MockS3Client
}

// NewMockBuilder creates a new MockBuilder.
func NewMockBuilder() *MockBuilder {
	return &MockBuilder{
		client: &MockS3Client{},
	}
}

// Build returns the configured MockS3Client.
func (b *MockBuilder) Build() *MockS3Client {
	return b.client
}

// WithListObjectsV2 configures the ListObjectsV2 behavior.
func (b *MockBuilder) WithListObjectsV2(
	fn func(context.Context, *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error),
) *MockBuilder {
	b.client.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
		return fn(ctx, params)
	}
	return b
}

// WithHeadBucket configures the HeadBucket behavior.
func (b *MockBuilder) WithHeadBucket(
	fn func(context.Context, *s3.HeadBucketInput) (*s3.HeadBucketOutput, error),
) *MockBuilder {
	b.client.HeadBucketFunc = func(ctx context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
		return fn(ctx, params)
	}
	return b
}

// WithPagedBucket serves ListObjectsV2 from bucket, honouring continuation tokens.
func (b *MockBuilder) WithPagedBucket(bucket *PagedBucket) *MockBuilder {
	return b.WithListObjectsV2(bucket.ListObjectsV2)
}

// WithListError makes every ListObjectsV2 call fail with err.
func (b *MockBuilder) WithListError(err error) *MockBuilder {
	return b.WithListObjectsV2(func(context.Context, *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
		return nil, err
	})
}

// WithMissingBucket makes HeadBucket report that the bucket does not exist.
func (b *MockBuilder) WithMissingBucket() *MockBuilder {
	return b.WithHeadBucket(func(context.Context, *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
		return nil, &types.NotFound{}
	})
}

// WithHeadBucketError makes HeadBucket fail with err.
func (b *MockBuilder) WithHeadBucketError(err error) *MockBuilder {
	return b.WithHeadBucket(func(context.Context, *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
		return nil, err
	})
}
