package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// TestDataGenerator provides methods for generating test data.
type TestDataGenerator struct {
	rand *rand.Rand
}

// NewTestDataGenerator creates a new test data generator with a seeded random source.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic fixtures
	}
}

// GenerateObjectList generates count objects under prefix whose modification
// times increase by one minute per object starting at base.
func (g *TestDataGenerator) GenerateObjectList(count int, prefix string, base time.Time) []types.Object {
	objects := make([]types.Object, count)
	for i := 0; i < count; i++ {
		key := fmt.Sprintf("%sobject-%04d.txt", prefix, i)
		size := int64(g.rand.Intn(1000000) + 1000) // 1KB to 1MB
		objects[i] = CreateTestObject(key, size, base.Add(time.Duration(i)*time.Minute))
	}
	return objects
}

// Shuffle returns objects in a random order.
func (g *TestDataGenerator) Shuffle(objects []types.Object) []types.Object {
	shuffled := make([]types.Object, len(objects))
	copy(shuffled, objects)
	g.rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// PagedBucket serves a fixed object list through ListObjectsV2 in pages of
// PageSize objects. Continuation tokens are page offsets. It counts calls.
type PagedBucket struct {
	Objects  []types.Object
	PageSize int

	mu       sync.Mutex
	calls    int
	requests []*s3.ListObjectsV2Input
}

// NewPagedBucket creates a PagedBucket.
func NewPagedBucket(objects []types.Object, pageSize int) *PagedBucket {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &PagedBucket{Objects: objects, PageSize: pageSize}
}

// ListObjectsV2 returns the page selected by the input's continuation token.
func (b *PagedBucket) ListObjectsV2(_ context.Context, input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	b.mu.Lock()
	b.calls++
	b.requests = append(b.requests, input)
	b.mu.Unlock()

	start := 0
	if token := aws.ToString(input.ContinuationToken); token != "" {
		offset, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid continuation token %q", token)
		}
		start = offset
	}

	end := start + b.PageSize
	if end > len(b.Objects) {
		end = len(b.Objects)
	}
	truncated := end < len(b.Objects)

	return CreateListObjectsV2Output(b.Objects[start:end], aws.ToString(input.Prefix), truncated, strconv.Itoa(end)), nil
}

// Calls returns the number of ListObjectsV2 calls served.
func (b *PagedBucket) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Requests returns the inputs received so far.
func (b *PagedBucket) Requests() []*s3.ListObjectsV2Input {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*s3.ListObjectsV2Input(nil), b.requests...)
}
