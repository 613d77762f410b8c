package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
	"github.com/testcontainers/testcontainers-go/wait"
)

const localStackRegion = "us-east-1"

// LocalStack is a running LocalStack S3 service seeded by integration tests.
type LocalStack struct {
	// Endpoint is the base URL of the S3 service
	Endpoint string

	// Client talks to the S3 service with path-style addressing
	Client *s3.Client

	container *localstack.LocalStackContainer
}

// StartLocalStack starts LocalStack for t and terminates it when t finishes.
// The test is skipped in short mode.
func StartLocalStack(t *testing.T) *LocalStack {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := localstack.Run(ctx,
		"localstack/localstack:latest",
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_localstack/health").
				WithPort("4566").
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("start LocalStack: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate LocalStack: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("LocalStack host: %v", err)
	}
	port, err := container.MappedPort(ctx, "4566")
	if err != nil {
		t.Fatalf("LocalStack port: %v", err)
	}

	ls := &LocalStack{
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
		container: container,
	}

	cfg, err := ls.AWSConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ls.Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(ls.Endpoint)
	})

	return ls
}

// AWSConfig returns an AWS configuration with LocalStack's static credentials.
func (ls *LocalStack) AWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(localStackRegion),
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
			})),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load LocalStack config: %w", err)
	}
	return cfg, nil
}

// CreateBucket creates bucket.
func (ls *LocalStack) CreateBucket(ctx context.Context, bucket string) error {
	if _, err := ls.Client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// PutObjects uploads one small object per key, in order, waiting gap between
// uploads so that modification times follow key order.
func (ls *LocalStack) PutObjects(ctx context.Context, bucket string, gap time.Duration, keys ...string) error {
	for i, key := range keys {
		if i > 0 && gap > 0 {
			time.Sleep(gap)
		}
		_, err := ls.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   strings.NewReader(key),
		})
		if err != nil {
			return fmt.Errorf("put object %s: %w", key, err)
		}
	}
	return nil
}
