package s3poller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

// WithRegion sets the AWS region.
// If not specified, the region from the credential chain is used, falling back to us-east-1.
func WithRegion(region string) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom endpoint URL for S3-compatible services.
func WithEndpoint(endpoint string) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
func WithForcePathStyle(forcePathStyle bool) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithMaxRetries sets the maximum number of SDK attempts for a failed request.
// Default is 3.
func WithMaxRetries(maxRetries int) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout bounds each HTTP request. Default is no timeout.
func WithTimeout(timeout time.Duration) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAWSConfig uses cfg instead of loading the default credential chain.
func WithAWSConfig(cfg *aws.Config) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.CustomAWSConfig = cfg
	}
}

// WithCustomHTTPClient sets the HTTP client used by the storage backend.
// It takes precedence over WithTimeout.
func WithCustomHTTPClient(client *http.Client) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithMaxPages caps the number of listing pages scanned per lookup.
// Non-positive values keep the default of 100.
func WithMaxPages(maxPages int) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.MaxPages = maxPages
	}
}

// WithMetrics registers the poller's Prometheus collectors on registerer.
func WithMetrics(registerer prometheus.Registerer) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.Registerer = registerer
	}
}

// WithMinioCredentials sets the static access keys of the MinIO backend.
func WithMinioCredentials(accessKey, secretKey string) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.AccessKey = accessKey
		c.SecretKey = secretKey
	}
}

// WithSecure enables TLS towards the MinIO backend.
func WithSecure(secure bool) pollertypes.Option {
	return func(c *pollertypes.ClientConfig) {
		c.Secure = secure
	}
}
