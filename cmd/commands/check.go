package commands

import (
	"fmt"

	"github.com/brightside-developer/brightbase-gen/internal/output"
	"github.com/brightside-developer/brightbase-gen/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check the generated files are up to date",
		Long: `Renders every binding in memory and compares it with the files on disk.
Nothing is written. Exits with status 1 when any file is missing or stale,
which makes it suitable for CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			stale, err := pipeline.Check(cfg, output.OSFileSystem{}, pipeline.Options{Logger: &logger})
			if err != nil {
				return err
			}

			for _, r := range stale {
				action := "regenerate"
				if r.Status == output.StatusDeleted {
					action = "remove"
				}
				logger.Warn().Str("path", r.Path).Str("action", action).Msg("Out of date")
			}
			if len(stale) > 0 {
				return fmt.Errorf("%d generated file(s) out of date, run 'brightbase-gen generate'", len(stale))
			}

			logger.Info().Msg("Generated files are up to date")
			return nil
		},
	}

	addConfigFlags(checkCmd)

	return checkCmd
}
