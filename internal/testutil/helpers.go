package testutil

import (
	"crypto/md5" //nolint:gosec // ETag fixtures only
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to the given int64 value.
func Int64Ptr(i int64) *int64 {
	return &i
}

// Int32Ptr returns a pointer to the given int32 value.
func Int32Ptr(i int32) *int32 {
	return &i
}

// BoolPtr returns a pointer to the given bool value.
func BoolPtr(b bool) *bool {
	return &b
}

// TimePtr returns a pointer to the given time value.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// GenerateTestBucketName generates a unique, DNS-compliant bucket name.
func GenerateTestBucketName(prefix string) string {
	//nolint:gosec // uniqueness only
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().Unix(), rand.Intn(10000))
}

// CreateTestObject creates a test S3 object structure.
// This is useful for mocking ListObjectsV2 responses.
func CreateTestObject(key string, size int64, lastModified time.Time) types.Object {
	return types.Object{
		Key:          StringPtr(key),
		Size:         Int64Ptr(size),
		LastModified: TimePtr(lastModified),
		ETag:         StringPtr(fmt.Sprintf(`"%x"`, md5.Sum([]byte(key)))), //nolint:gosec // fixture
		StorageClass: types.ObjectStorageClassStandard,
	}
}

// CreateListObjectsV2Output creates a test ListObjectsV2Output structure.
// A truncated output carries nextToken as its continuation token.
func CreateListObjectsV2Output(objects []types.Object, prefix string, truncated bool, nextToken string) *s3.ListObjectsV2Output {
	output := &s3.ListObjectsV2Output{
		Contents:    objects,
		KeyCount:    Int32Ptr(int32(len(objects))), //nolint:gosec // page sizes are small
		MaxKeys:     Int32Ptr(1000),
		Name:        StringPtr("test-bucket"),
		Prefix:      StringPtr(prefix),
		IsTruncated: BoolPtr(truncated),
	}
	if truncated {
		output.NextContinuationToken = StringPtr(nextToken)
	}
	return output
}
