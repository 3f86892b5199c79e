package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/brightside-developer/brightbase-gen/internal/config"
	"github.com/brightside-developer/brightbase-gen/internal/output"
	"github.com/brightside-developer/brightbase-gen/internal/pipeline"
	"github.com/brightside-developer/brightbase-gen/internal/watch"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Tables.ts, Rpc.ts and bright.types.ts",
		Long: `Generate typed bindings from the Supabase database.types.ts file.

Tables.ts gets a record type, create options and read options per table plus
a BrightBaseCRUD accessor for each. With RPC enabled, Rpc.ts lists every
database function, and is removed when the schema has none.

Example:
	 brightbase-gen generate --schema=./src/types/database.types.ts --api-dir=./src/api
	 brightbase-gen generate --preset native --watch
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			watchMode, _ := cmd.Flags().GetBool("watch")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if dryRun {
				logger.Info().Msg("Dry run - no files will be written")
			}

			opts := pipeline.Options{DryRun: dryRun, Logger: &logger}
			if !watchMode {
				return generate(cmd.Context(), cfg, opts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return generateAndWatch(ctx, cfg, opts)
		},
	}

	addConfigFlags(generateCmd)
	generateCmd.Flags().Bool("dry-run", false, "Show what would be generated without writing files")
	generateCmd.Flags().Bool("watch", false, "Regenerate whenever the schema or includes file changes")

	return generateCmd
}

// generate runs the pipeline once and logs what happened to each file
func generate(ctx context.Context, cfg config.Config, opts pipeline.Options) error {
	report, err := pipeline.Run(ctx, cfg, output.OSFileSystem{}, opts)
	for _, r := range report.Results {
		if r.Err != nil {
			continue
		}
		ev := logger.Debug()
		if r.Changed() {
			ev = logger.Info()
		}
		ev.Str("path", r.Path).Str("status", string(r.Status)).Msg("Synced")
	}
	if err != nil {
		return err
	}

	logger.Info().
		Int("tables", len(report.Schema.Tables)).
		Int("functions", len(report.Schema.Functions)).
		Int("changed", len(report.Changed())).
		Msg("Generated bindings")
	return nil
}

// generateAndWatch generates once, then again after every change to the
// schema or includes file until ctx is cancelled
func generateAndWatch(ctx context.Context, cfg config.Config, opts pipeline.Options) error {
	if err := generate(ctx, cfg, opts); err != nil {
		logger.Error().Err(err).Msg("Generation failed, waiting for changes")
	}

	files := []string{cfg.SchemaFile()}
	if p := cfg.IncludePath(); p != "" {
		files = append(files, p)
	}

	fw, err := watch.NewFileWatcher(files, watch.DefaultDebounce, func(ctx context.Context, changed []string) {
		logger.Info().Strs("changed", changed).Msg("Regenerating")
		if err := generate(ctx, cfg, opts); err != nil {
			logger.Error().Err(err).Msg("Generation failed, waiting for changes")
		}
	}, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	logger.Info().Strs("files", files).Msg("Watching for changes")
	if err := fw.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
