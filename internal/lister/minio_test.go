package lister

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
)

type fakeMinioCore struct {
	objects  []minio.ObjectInfo
	pageSize int
	listErr  error
	exists   bool
	headErr  error

	tokens []string
}

func (f *fakeMinioCore) ListObjectsV2(
	_, _, _, continuationToken, _ string,
	maxkeys int,
) (minio.ListBucketV2Result, error) {
	f.tokens = append(f.tokens, continuationToken)
	if f.listErr != nil {
		return minio.ListBucketV2Result{}, f.listErr
	}

	size := f.pageSize
	if size == 0 {
		size = maxkeys
	}
	start := 0
	if continuationToken != "" {
		start, _ = strconv.Atoi(continuationToken)
	}
	end := min(start+size, len(f.objects))

	result := minio.ListBucketV2Result{
		Contents:    f.objects[start:end],
		IsTruncated: end < len(f.objects),
	}
	if result.IsTruncated {
		result.NextContinuationToken = strconv.Itoa(end)
	}
	return result, nil
}

func (f *fakeMinioCore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.headErr
}

func minioEndpoint(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("http://minio.local:9000")
	require.NoError(t, err)
	return u
}

func TestMinio_ListPages(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	core := &fakeMinioCore{
		pageSize: 2,
		objects: []minio.ObjectInfo{
			{Key: "builds/a.zip", LastModified: base, Size: 10, ETag: "a"},
			{Key: "builds/b.zip", LastModified: base.Add(time.Hour), Size: 20, ETag: "b"},
			{Key: "builds/c.zip", LastModified: base.Add(2 * time.Hour), Size: 30, ETag: "c"},
		},
	}
	l := NewMinio(core, minioEndpoint(t), 0)

	ctx := context.Background()
	first, err := l.ListObjects(ctx, "artifacts", "builds/")
	require.NoError(t, err)
	assert.True(t, first.Truncated)
	require.Len(t, first.Summaries, 2)
	assert.Equal(t, "builds/b.zip", first.Summaries[1].Key)
	assert.Equal(t, int64(20), first.Summaries[1].Size)

	second, err := l.ListNextPage(ctx, first)
	require.NoError(t, err)
	assert.False(t, second.Truncated)
	require.Len(t, second.Summaries, 1)
	assert.Equal(t, base.Add(2*time.Hour), second.Summaries[0].LastModified)

	assert.Equal(t, []string{"", "2"}, core.tokens)
}

func TestMinio_ListObjects_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{
			name:   "no such bucket",
			err:    minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound},
			wantIs: s3errors.ErrBucketNotFound,
		},
		{
			name:   "access denied",
			err:    minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden},
			wantIs: s3errors.ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewMinio(&fakeMinioCore{listErr: tt.err}, minioEndpoint(t), 0)

			_, err := l.ListObjects(context.Background(), "artifacts", "builds/")

			assert.ErrorIs(t, err, tt.wantIs)
			var pollErr *s3errors.Error
			require.ErrorAs(t, err, &pollErr)
			assert.Equal(t, "artifacts", pollErr.Bucket)
		})
	}
}

func TestMinio_ListObjects_CancelledContext(t *testing.T) {
	core := &fakeMinioCore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMinio(core, minioEndpoint(t), 0).ListObjects(ctx, "artifacts", "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, core.tokens)
}

func TestMinio_BucketExists(t *testing.T) {
	otherErr := errors.New("connection refused")

	tests := []struct {
		name    string
		core    *fakeMinioCore
		want    bool
		wantErr error
	}{
		{name: "exists", core: &fakeMinioCore{exists: true}, want: true},
		{name: "missing", core: &fakeMinioCore{exists: false}, want: false},
		{
			name: "forbidden",
			core: &fakeMinioCore{headErr: minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}},
			want: true,
		},
		{name: "failure", core: &fakeMinioCore{headErr: otherErr}, wantErr: otherErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMinio(tt.core, minioEndpoint(t), 0).BucketExists(context.Background(), "artifacts")

			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMinio_ResolveURL(t *testing.T) {
	l := NewMinio(&fakeMinioCore{}, minioEndpoint(t), 0)

	assert.Equal(t, "http://minio.local:9000/artifacts/builds/app%201.zip", l.ResolveURL("artifacts", "builds/app 1.zip"))
}
