package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller"
	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/testutil"
)

func mockPoller(client *testutil.MockS3Client, got *settings) pollerFactory {
	return func(_ context.Context, s settings, logger *slog.Logger) (*s3poller.Poller, error) {
		if got != nil {
			*got = s
		}
		return s3poller.NewWithClient(client, s.options(logger)...), nil
	}
}

func run(t *testing.T, factory pollerFactory, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleClient() *testutil.MockS3Client {
	objects := []types.Object{
		testutil.CreateTestObject("a/1.txt", 1, time.Unix(100, 0)),
		testutil.CreateTestObject("a/2.txt", 1, time.Unix(300, 0)),
		testutil.CreateTestObject("a/3.txt", 1, time.Unix(200, 0)),
	}
	return testutil.NewMockBuilder().
		WithPagedBucket(testutil.NewPagedBucket(objects, 0)).
		WithHeadBucket(func(context.Context, *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
			return &s3.HeadBucketOutput{}, nil
		}).
		Build()
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand(defaultPoller)
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"check-repo", "check-package", "latest", "latest-since", "validate", "schema"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
	assert.Equal(t, "dev", root.Version)
}

func TestCheckRepo(t *testing.T) {
	out, err := run(t, mockPoller(sampleClient(), nil), "check-repo", "--bucket", "artifacts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","messages":["Bucket found"]}`, out)
}

func TestCheckRepo_NotFound(t *testing.T) {
	client := testutil.NewMockBuilder().WithMissingBucket().Build()

	out, err := run(t, mockPoller(client, nil), "check-repo", "--bucket", "artifacts")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Equal(t, 1, exitCodeForError(err))
	assert.JSONEq(t, `{"status":"failure","messages":["Bucket not found"]}`, out)
}

func TestCheckPackage_EmptyFolder(t *testing.T) {
	client := testutil.NewMockBuilder().WithPagedBucket(testutil.NewPagedBucket(nil, 0)).Build()

	out, err := run(t, mockPoller(client, nil), "check-package", "--bucket", "artifacts", "--path", "a/")
	require.ErrorIs(t, err, errCheckFailed)
	assert.JSONEq(t, `{"status":"failure","messages":["Could not find objects in path. Folder can't be empty."]}`, out)
}

func TestLatest(t *testing.T) {
	out, err := run(t, mockPoller(sampleClient(), nil),
		"latest", "--bucket", "artifacts", "--path", "a/", "--region", "eu-west-1")
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"revision": "a/2.txt",
		"timestamp": "1970-01-01T00:05:00.000Z",
		"user": "S3",
		"revisionComment": "Object at a/2.txt with date Thu Jan  1 00:05:00 UTC 1970",
		"trackbackUrl": "https://artifacts.s3.eu-west-1.amazonaws.com/a/2.txt"
	}`, out)
}

func TestLatest_ListingFaultPrintsEmptyRevision(t *testing.T) {
	client := testutil.NewMockBuilder().WithListError(errors.New("throttled")).Build()

	out, err := run(t, mockPoller(client, nil), "latest", "--bucket", "artifacts")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, out)
}

func TestLatestSince(t *testing.T) {
	tests := []struct {
		name  string
		since string
		want  string
	}{
		{name: "older baseline", since: "1970-01-01T00:04:59Z", want: `"revision": "a/2.txt"`},
		{name: "equal baseline", since: "1970-01-01T00:05:00.000Z", want: `{}`},
		{name: "newer baseline", since: "1970-01-01T02:00:00+01:00", want: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, mockPoller(sampleClient(), nil),
				"latest-since", "--bucket", "artifacts", "--path", "a/", "--since", tt.since)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestLatestSince_InvalidTimestamp(t *testing.T) {
	_, err := run(t, mockPoller(sampleClient(), nil),
		"latest-since", "--bucket", "artifacts", "--since", "yesterday")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestLatest_MissingBucket(t *testing.T) {
	_, err := run(t, mockPoller(sampleClient(), nil), "latest")
	require.ErrorIs(t, err, s3errors.ErrInvalidConfig)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestValidate(t *testing.T) {
	out, err := run(t, mockPoller(sampleClient(), nil), "validate", "--bucket", "artifacts", "--path", "a/")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	out, err = run(t, mockPoller(sampleClient(), nil), "validate")
	require.ErrorIs(t, err, s3errors.ErrInvalidConfig)
	assert.JSONEq(t, `[{"key":"S3_BUCKET","message":"S3 bucket must be specified"}]`, out)
}

func TestSchema(t *testing.T) {
	out, err := run(t, mockPoller(sampleClient(), nil), "schema")
	require.NoError(t, err)

	var schema map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, schema["repository"], "S3_BUCKET")
	assert.Contains(t, schema["package"], "S3_PATH")
}

func TestSettingsFromEnvironment(t *testing.T) {
	t.Setenv("S3POLLER_BUCKET", "from-env")
	t.Setenv("S3POLLER_MAX_PAGES", "7")
	t.Setenv("S3POLLER_PATH_STYLE", "true")

	var got settings
	_, err := run(t, mockPoller(sampleClient(), &got), "latest", "--path", "a/")
	require.NoError(t, err)

	assert.Equal(t, "from-env", got.Bucket)
	assert.Equal(t, "a/", got.Path)
	assert.Equal(t, 7, got.MaxPages)
	assert.True(t, got.PathStyle)
	assert.Equal(t, backendS3, got.Backend)
}

func TestDefaultPoller_UnknownBackend(t *testing.T) {
	_, err := defaultPoller(context.Background(), settings{Backend: "gcs"}, nil)
	assert.ErrorIs(t, err, s3errors.ErrInvalidConfig)
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "check failed", err: errCheckFailed, want: 1},
		{name: "invalid config", err: s3errors.NewError("config", s3errors.ErrInvalidConfig), want: 2},
		{name: "missing bucket", err: s3errors.NewBucketError("list", "b", s3errors.ErrBucketNotFound), want: 3},
		{name: "other", err: errors.New("boom"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeForError(tt.err))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogging(&buf, "debug")
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	logger = setupLogging(&buf, "")
	logger.Info("hidden")
	assert.Empty(t, buf.String())
}
