package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brightside-developer/brightbase-gen/cmd/common"
	"github.com/brightside-developer/brightbase-gen/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// customHelpTemplate is a custom help template that displays commands in our desired order
const customHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`

var (
	// Version will be set during build
	Version = "dev"

	// logger is configured from the global flags before any command runs
	logger = zerolog.Nop()
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brightbase-gen",
		Short: "Generate typed BrightBase bindings from Supabase schema types",
		Long: `brightbase-gen reads the database.types.ts file produced by the Supabase CLI
and generates typed table accessors (Tables.ts), function bindings (Rpc.ts)
and their helper types (bright.types.ts).

Example:
	 brightbase-gen init --preset native
	 brightbase-gen generate --watch
`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			verbose, _ := cmd.Flags().GetBool("verbose")

			l, err := common.NewLogger(cmd.ErrOrStderr(), level, verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			// Just display help information by default
			cmd.Help()
		},
	}

	// Add global flags to the root command
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (default: brightbase.yaml)")
	rootCmd.PersistentFlags().String("root", ".", "Project directory relative paths are resolved against")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	// Add commands to root in the order we want them to appear
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewGetIncludesCmd())

	rootCmd.SetHelpTemplate(customHelpTemplate)

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// addConfigFlags registers the flags that override configuration keys
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Preset used when no config file is found (web or native, default: detected from package.json)")
	cmd.Flags().String("schema", "", "Path to the Supabase database.types.ts file")
	cmd.Flags().String("types-dir", "", "Directory to write bright.types.ts to")
	cmd.Flags().String("api-dir", "", "Directory to write Tables.ts and Rpc.ts to")
	cmd.Flags().String("crud-package", "", "Package exporting BrightBaseCRUD and BrightBaseFunctions")
	cmd.Flags().String("types-import", "", "Import path from the api directory to the types directory")
	cmd.Flags().Bool("with-rpc", false, "Generate Rpc.ts for database functions")
	cmd.Flags().StringSlice("omit-on-create", nil, "Columns omitted from create payloads")
	cmd.Flags().String("include-file", "", "Path to file specifying which tables and functions to include")
	cmd.Flags().Int("concurrency", 0, "Maximum number of files written at once")
}

// loadConfig resolves the configuration for a command: an explicit --config
// file, else a default config file under --root, else a preset. Flags that
// were set override the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	root, _ := cmd.Flags().GetString("root")

	var (
		cfg  config.Config
		path string
		err  error
	)
	if configFile != "" {
		cfg, err = common.LoadConfigFile(configFile, logger)
		path = configFile
		if !cmd.Flags().Changed("root") {
			root = filepath.Dir(configFile)
		}
	} else {
		cfg, path, err = common.TryLoadDefaultConfig(root, logger)
	}
	if err != nil {
		return config.Config{}, err
	}

	if path == "" {
		preset, _ := cmd.Flags().GetString("preset")
		if preset == "" {
			if preset, err = common.DetectPreset(root); err != nil {
				return config.Config{}, err
			}
		}
		if cfg, err = config.Preset(preset); err != nil {
			return config.Config{}, err
		}
		logger.Debug().Str("preset", preset).Msg("No config file found, using preset")
	}
	cfg.Root = root

	flags := cmd.Flags()
	if flags.Changed("schema") {
		cfg.SchemaPath, _ = flags.GetString("schema")
	}
	if flags.Changed("types-dir") {
		cfg.TypesDir, _ = flags.GetString("types-dir")
	}
	if flags.Changed("api-dir") {
		cfg.APIDir, _ = flags.GetString("api-dir")
	}
	if flags.Changed("crud-package") {
		cfg.CRUDPackage, _ = flags.GetString("crud-package")
	}
	if flags.Changed("types-import") {
		cfg.TypesImport, _ = flags.GetString("types-import")
	}
	if flags.Changed("with-rpc") {
		cfg.WithRPC, _ = flags.GetBool("with-rpc")
	}
	if flags.Changed("omit-on-create") {
		cfg.OmitOnCreate, _ = flags.GetStringSlice("omit-on-create")
	}
	if flags.Changed("include-file") {
		cfg.IncludeFile, _ = flags.GetString("include-file")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		common.PrintConfig(cfg, logger)
	}
	return cfg, nil
}
