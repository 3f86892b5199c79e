package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brightside-developer/brightbase-gen/cmd/common"
	"github.com/brightside-developer/brightbase-gen/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new brightbase-gen configuration file",
		Long: `Creates a new brightbase.yaml configuration file with the defaults of a preset.
The preset is detected from package.json unless --preset is given.
You can then edit this file to customize the behavior of brightbase-gen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("output")
			preset, _ := cmd.Flags().GetString("preset")
			force, _ := cmd.Flags().GetBool("force")
			root, _ := cmd.Flags().GetString("root")

			if !filepath.IsAbs(configFile) {
				configFile = filepath.Join(root, configFile)
			}

			// Check if file already exists
			if _, err := os.Stat(configFile); err == nil && !force {
				return fmt.Errorf("config file %s already exists, use --force to overwrite or --output to choose another path", configFile)
			}

			if preset == "" {
				detected, err := common.DetectPreset(root)
				if err != nil {
					return err
				}
				preset = detected
				logger.Debug().Str("preset", preset).Msg("Detected preset from package.json")
			}

			cfg, err := config.Preset(preset)
			if err != nil {
				return err
			}

			if err := common.WriteConfigWithComments(cfg, configFile); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			logger.Info().Str("path", configFile).Str("preset", preset).Msg("Created config file")
			return nil
		},
	}

	initCmd.Flags().StringP("output", "o", common.DefaultConfigPaths[0], "Path to write the config file")
	initCmd.Flags().String("preset", "", "Preset to start from (web or native)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	return initCmd
}
