package s3poller

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/lister"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/metrics"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/resolver"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

const defaultRegion = "us-east-1"

// New creates a Poller backed by AWS S3.
// It loads AWS credentials using the default credential chain unless
// WithAWSConfig is given.
//
// Example:
//
//	poller, err := s3poller.New(ctx,
//	    s3poller.WithRegion("us-west-2"),
//	    s3poller.WithMaxRetries(5),
//	)
func New(ctx context.Context, opts ...pollertypes.Option) (*Poller, error) {
	clientCfg := newClientConfig(opts...)

	var cfg aws.Config
	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var err error
		cfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	client := s3.NewFromConfig(cfg, s3Options(clientCfg)...)

	store := lister.NewS3(client, lister.S3Config{
		Region:    cfg.Region,
		Endpoint:  clientCfg.Endpoint,
		PathStyle: clientCfg.ForcePathStyle,
	})

	return newPoller(store, clientCfg), nil
}

// NewWithClient creates a Poller over a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(client s3api.S3API, opts ...pollertypes.Option) *Poller {
	clientCfg := newClientConfig(opts...)
	region := clientCfg.Region
	if region == "" {
		region = defaultRegion
	}
	store := lister.NewS3(client, lister.S3Config{
		Region:    region,
		Endpoint:  clientCfg.Endpoint,
		PathStyle: clientCfg.ForcePathStyle,
	})
	return newPoller(store, clientCfg)
}

// NewMinio creates a Poller backed by a MinIO or other S3-compatible server.
// endpoint is either host:port or a URL whose scheme selects TLS.
func NewMinio(endpoint string, opts ...pollertypes.Option) (*Poller, error) {
	clientCfg := newClientConfig(opts...)

	host, secure, err := splitEndpoint(endpoint, clientCfg.Secure)
	if err != nil {
		return nil, err
	}

	minioOpts, err := minioOptions(clientCfg, secure)
	if err != nil {
		return nil, err
	}

	core, err := minio.NewCore(host, minioOpts)
	if err != nil {
		return nil, errors.NewError("client initialization", err)
	}

	store := lister.NewMinio(core, core.EndpointURL(), 0)
	return newPoller(store, clientCfg), nil
}

// NewWithStore creates a Poller over any storage backend.
func NewWithStore(store Store, opts ...pollertypes.Option) *Poller {
	return newPoller(store, newClientConfig(opts...))
}

func newClientConfig(opts ...pollertypes.Option) *pollertypes.ClientConfig {
	clientCfg := &pollertypes.ClientConfig{
		MaxRetries: 3,
		MaxPages:   resolver.DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}
	return clientCfg
}

func s3Options(clientCfg *pollertypes.ClientConfig) []func(*s3.Options) {
	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	switch {
	case clientCfg.CustomHTTPClient != nil:
		httpClient := clientCfg.CustomHTTPClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	case clientCfg.Timeout > 0:
		httpClient := &http.Client{Timeout: clientCfg.Timeout}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return s3Opts
}

// minioOptions builds the minio-go options. WithTimeout bounds dialing, the
// TLS handshake and the wait for response headers of each request.
func minioOptions(clientCfg *pollertypes.ClientConfig, secure bool) (*minio.Options, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(clientCfg.AccessKey, clientCfg.SecretKey, ""),
		Secure: secure,
		Region: clientCfg.Region,
	}

	switch {
	case clientCfg.CustomHTTPClient != nil && clientCfg.CustomHTTPClient.Transport != nil:
		opts.Transport = clientCfg.CustomHTTPClient.Transport
	case clientCfg.Timeout > 0:
		transport, err := minio.DefaultTransport(secure)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
		transport.DialContext = (&net.Dialer{
			Timeout:   clientCfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
		transport.TLSHandshakeTimeout = clientCfg.Timeout
		transport.ResponseHeaderTimeout = clientCfg.Timeout
		opts.Transport = transport
	}

	return opts, nil
}

func newPoller(store Store, clientCfg *pollertypes.ClientConfig) *Poller {
	resolverOpts := []resolver.Option{
		resolver.WithLogger(clientCfg.Logger),
		resolver.WithMaxPages(clientCfg.MaxPages),
	}
	if clientCfg.Registerer != nil {
		resolverOpts = append(resolverOpts, resolver.WithRecorder(metrics.New(clientCfg.Registerer)))
	}

	return &Poller{
		store:    store,
		resolver: resolver.New(store, resolverOpts...),
		logger:   clientCfg.Logger,
	}
}

// splitEndpoint turns endpoint into the host:port form minio-go expects.
func splitEndpoint(endpoint string, secure bool) (string, bool, error) {
	if endpoint == "" {
		return "", false, errors.NewError("client initialization", errors.ErrInvalidConfig).
			WithMessage("endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), secure, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, errors.NewError("client initialization", errors.ErrInvalidConfig).
			WithMessage("invalid endpoint " + endpoint)
	}
	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	}
	return "", false, errors.NewError("client initialization", errors.ErrInvalidConfig).
		WithMessage("unsupported endpoint scheme " + u.Scheme)
}
