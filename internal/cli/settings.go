package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/config"
	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

const (
	backendS3    = "s3"
	backendMinio = "minio"
)

// settings is the resolved CLI configuration.
type settings struct {
	Bucket    string
	Path      string
	Backend   string
	Region    string
	Endpoint  string
	PathStyle bool
	MaxPages  int
	Timeout   time.Duration
	AccessKey string
	SecretKey string
	Secure    bool
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		Bucket:    v.GetString("bucket"),
		Path:      v.GetString("path"),
		Backend:   v.GetString("backend"),
		Region:    v.GetString("region"),
		Endpoint:  v.GetString("endpoint"),
		PathStyle: v.GetBool("path_style"),
		MaxPages:  v.GetInt("max_pages"),
		Timeout:   v.GetDuration("timeout"),
		AccessKey: v.GetString("access_key"),
		SecretKey: v.GetString("secret_key"),
		Secure:    v.GetBool("secure"),
	}
}

func (s settings) repository() config.Properties {
	return config.NewRepository(s.Bucket)
}

func (s settings) pkg() config.Properties {
	return config.NewPackage(s.Path)
}

func (s settings) options(logger *slog.Logger) []pollertypes.Option {
	opts := []pollertypes.Option{
		s3poller.WithLogger(logger),
		s3poller.WithMaxPages(s.MaxPages),
	}
	if s.Region != "" {
		opts = append(opts, s3poller.WithRegion(s.Region))
	}
	if s.Timeout > 0 {
		opts = append(opts, s3poller.WithTimeout(s.Timeout))
	}
	return opts
}

// defaultPoller builds a Poller for the configured backend.
func defaultPoller(ctx context.Context, s settings, logger *slog.Logger) (*s3poller.Poller, error) {
	opts := s.options(logger)

	switch s.Backend {
	case "", backendS3:
		if s.Endpoint != "" {
			opts = append(opts, s3poller.WithEndpoint(s.Endpoint))
		}
		opts = append(opts, s3poller.WithForcePathStyle(s.PathStyle))
		return s3poller.New(ctx, opts...)
	case backendMinio:
		opts = append(opts,
			s3poller.WithMinioCredentials(s.AccessKey, s.SecretKey),
			s3poller.WithSecure(s.Secure),
		)
		return s3poller.NewMinio(s.Endpoint, opts...)
	}
	return nil, s3errors.NewError("config", s3errors.ErrInvalidConfig).
		WithMessage(fmt.Sprintf("unknown backend %q", s.Backend))
}
