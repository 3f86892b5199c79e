package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brightside-developer/brightbase-gen/cmd/common"
	"github.com/brightside-developer/brightbase-gen/internal/includes"
	"github.com/brightside-developer/brightbase-gen/internal/parser"
	"github.com/spf13/cobra"
)

// NewGetIncludesCmd creates the getincludes command
func NewGetIncludesCmd() *cobra.Command {
	getIncludesCmd := &cobra.Command{
		Use:   "getincludes",
		Short: "Generate a template file for selecting tables and functions",
		Long: `Generate a YAML file listing all tables and functions found in the schema.
Every entry starts commented out; uncomment the ones you want and set
includeFile in brightbase.yaml to generate bindings for just those.

Example:
     brightbase-gen getincludes --output=./brightbase.includes.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// If output path is not specified, use the one from config
			if outputPath == "" {
				outputPath = cfg.IncludePath()
			}
			if outputPath == "" {
				outputPath = cfg.Resolve(common.DefaultIncludesPath)
			}
			logger.Debug().Str("path", outputPath).Msg("Using output path")

			if _, err := os.Stat(outputPath); err == nil && !force {
				return fmt.Errorf("file %s already exists, use --force to overwrite", outputPath)
			}

			schema, err := parser.ParseSchemaFile(cfg.SchemaFile())
			if err != nil {
				return err
			}

			var functionNames []string
			if cfg.WithRPC {
				functionNames = schema.FunctionNames()
			}
			logger.Debug().
				Strs("tables", schema.TableNames()).
				Strs("functions", functionNames).
				Msg("Found schema entries")

			// Ensure the output directory exists
			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			// Write the includes file with all entries commented out
			if err := includes.WriteIncludesFile(outputPath, schema.TableNames(), functionNames, true); err != nil {
				return fmt.Errorf("failed to write includes file: %w", err)
			}

			logger.Info().
				Str("path", outputPath).
				Int("tables", len(schema.Tables)).
				Int("functions", len(functionNames)).
				Msg("Generated includes template, uncomment the entries to generate and set includeFile in your config")
			return nil
		},
	}

	addConfigFlags(getIncludesCmd)
	getIncludesCmd.Flags().String("output", "", "Output file path (default: value of includeFile in config or brightbase.includes.yaml)")
	getIncludesCmd.Flags().Bool("force", false, "Overwrite existing file")

	return getIncludesCmd
}
