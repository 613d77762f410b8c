// Package cli implements the s3poller command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller"
	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "S3POLLER"

// errCheckFailed marks a connectivity check or validation that did not pass.
var errCheckFailed = errors.New("check failed")

type pollerFactory func(ctx context.Context, s settings, logger *slog.Logger) (*s3poller.Poller, error)

type rootOptions struct {
	ConfigFile string
	LogLevel   string
}

// app carries the state shared by all subcommands of one root command.
type app struct {
	v         *viper.Viper
	newPoller pollerFactory
	logger    *slog.Logger
}

// Execute runs the root command and exits with a status derived from the error.
func Execute() {
	_ = godotenv.Load()

	root := newRootCommand(defaultPoller)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand(factory pollerFactory) *cobra.Command {
	opts := rootOptions{}
	a := &app{v: viper.New(), newPoller: factory}

	cmd := &cobra.Command{
		Use:           "s3poller",
		Short:         "Find the latest object under an S3 prefix",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(a.v, opts.ConfigFile); err != nil {
				return err
			}
			a.logger = setupLogging(cmd.ErrOrStderr(), a.v.GetString("log_level"))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("bucket", "", "Bucket name")
	flags.String("path", "", "Key prefix inside the bucket")
	flags.String("backend", backendS3, "Storage backend (s3, minio)")
	flags.String("region", "", "AWS region")
	flags.String("endpoint", "", "Custom S3 endpoint URL")
	flags.Bool("path-style", false, "Use path-style addressing")
	flags.Int("max-pages", 0, "Maximum listing pages scanned per lookup (default 100)")
	flags.Duration("timeout", 0, "Per-request timeout")
	flags.String("access-key", "", "MinIO access key")
	flags.String("secret-key", "", "MinIO secret key")
	flags.Bool("secure", false, "Use TLS towards MinIO")

	for _, name := range []string{
		"log-level", "bucket", "path", "backend", "region", "endpoint", "path-style",
		"max-pages", "timeout", "access-key", "secret-key", "secure",
	} {
		_ = a.v.BindPFlag(configKey(name), flags.Lookup(name))
	}

	cmd.AddCommand(newCheckRepoCommand(a))
	cmd.AddCommand(newCheckPackageCommand(a))
	cmd.AddCommand(newLatestCommand(a))
	cmd.AddCommand(newLatestSinceCommand(a))
	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newSchemaCommand())
	return cmd
}

// configKey maps a flag name onto its viper and environment key.
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func initConfig(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return s3errors.NewError("config", fmt.Errorf("%w: %w", s3errors.ErrInvalidConfig, err)).
				WithMessage("failed to read config file")
		}
		return nil
	}

	v.SetConfigName("s3poller")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/s3poller")
	_ = v.ReadInConfig()
	return nil
}

func setupLogging(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func exitCodeForError(err error) int {
	if errors.Is(err, errCheckFailed) {
		return 1
	}
	switch s3errors.CodeOf(err) {
	case s3errors.CodeInvalidInput:
		return 2
	case s3errors.CodeNotFound, s3errors.CodeForbidden:
		return 3
	default:
		return 1
	}
}
