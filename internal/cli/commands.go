package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/config"
	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

func newCheckRepoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-repo",
		Short: "Check that the bucket exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := loadSettings(a.v)
			poller, err := a.newPoller(cmd.Context(), s, a.logger)
			if err != nil {
				return err
			}
			result := poller.CheckRepositoryConnection(cmd.Context(), s.repository())
			return writeCheck(cmd, result)
		},
	}
}

func newCheckPackageCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-package",
		Short: "Check that the path holds at least one object",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := loadSettings(a.v)
			poller, err := a.newPoller(cmd.Context(), s, a.logger)
			if err != nil {
				return err
			}
			result := poller.CheckPackageConnection(cmd.Context(), s.pkg(), s.repository())
			return writeCheck(cmd, result)
		},
	}
}

func newLatestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the latest revision under the path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := loadSettings(a.v)
			poller, err := a.newPoller(cmd.Context(), s, a.logger)
			if err != nil {
				return err
			}
			rev, err := poller.LatestRevision(cmd.Context(), s.pkg(), s.repository())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newRevisionMessage(&rev))
		},
	}
}

func newLatestSinceCommand(a *app) *cobra.Command {
	var since string
	cmd := &cobra.Command{
		Use:   "latest-since",
		Short: "Print the latest revision if it is newer than --since",
		RunE: func(cmd *cobra.Command, _ []string) error {
			previous, err := parseTimestamp(since)
			if err != nil {
				return s3errors.NewError("latestSince", fmt.Errorf("%w: %w", s3errors.ErrInvalidInput, err)).
					WithMessage("invalid --since timestamp")
			}

			s := loadSettings(a.v)
			poller, err := a.newPoller(cmd.Context(), s, a.logger)
			if err != nil {
				return err
			}
			rev, err := poller.LatestRevisionSince(cmd.Context(), s.pkg(), s.repository(),
				pollertypes.PackageRevision{Timestamp: previous})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newRevisionMessage(rev))
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "Timestamp of the previous revision (RFC 3339)")
	_ = cmd.MarkFlagRequired("since")
	return cmd
}

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the bucket and path configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := loadSettings(a.v)
			problems := append(config.ValidateRepository(s.repository()), config.ValidatePackage(s.pkg())...)
			if problems == nil {
				problems = []config.ValidationError{}
			}
			if err := writeJSON(cmd.OutOrStdout(), problems); err != nil {
				return err
			}
			if len(problems) > 0 {
				return s3errors.NewError("validate", s3errors.ErrInvalidConfig).
					WithMessage(fmt.Sprintf("%d invalid properties", len(problems)))
			}
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the repository and package property definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), map[string]map[string]config.PropertyDefinition{
				"repository": config.RepositoryConfiguration(),
				"package":    config.PackageConfiguration(),
			})
		},
	}
}

func writeCheck(cmd *cobra.Command, result pollertypes.CheckResult) error {
	if err := writeJSON(cmd.OutOrStdout(), newCheckMessage(result)); err != nil {
		return err
	}
	if !result.OK() {
		return errCheckFailed
	}
	return nil
}
