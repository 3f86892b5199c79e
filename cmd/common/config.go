package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/brightside-developer/brightbase-gen/internal/config"
	"github.com/rs/zerolog"
)

// DefaultConfigPaths contains the default paths to look for configuration files
var DefaultConfigPaths = []string{
	"brightbase.yaml",
	"brightbase.yml",
	".brightbase.yaml",
	".brightbase.yml",
}

// DefaultIncludesPath is where getincludes writes when nothing else is configured
const DefaultIncludesPath = "brightbase.includes.yaml"

// LoadConfigFile loads configuration from a YAML file
func LoadConfigFile(path string, log zerolog.Logger) (config.Config, error) {
	log.Debug().Str("path", path).Msg("Loading config")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// TryLoadDefaultConfig attempts to load configuration from the default paths
// under root. The returned path is empty when no file was found.
func TryLoadDefaultConfig(root string, log zerolog.Logger) (config.Config, string, error) {
	for _, name := range DefaultConfigPaths {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadConfigFile(path, log)
		if err != nil {
			return config.Config{}, path, err
		}
		log.Debug().Str("path", path).Msg("Loaded config")
		return cfg, path, nil
	}
	return config.Config{}, "", nil
}

// packageManifest is the part of package.json used to pick a preset
type packageManifest struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// DetectPreset picks the preset matching the client package listed in
// root/package.json. It returns the web preset when the manifest is missing
// or names neither package.
func DetectPreset(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.PresetWeb, nil
		}
		return "", fmt.Errorf("failed to read package.json: %w", err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("failed to parse package.json: %w", err)
	}

	native, _ := config.Preset(config.PresetNative)
	for _, deps := range []map[string]string{manifest.Dependencies, manifest.DevDependencies} {
		if _, ok := deps[native.CRUDPackage]; ok {
			return config.PresetNative, nil
		}
	}
	return config.PresetWeb, nil
}

// PrintConfig logs the effective configuration
func PrintConfig(cfg config.Config, log zerolog.Logger) {
	log.Info().
		Str("preset", cfg.Preset).
		Str("root", cfg.Root).
		Str("schema", cfg.SchemaFile()).
		Str("types_dir", cfg.TypesDir).
		Str("api_dir", cfg.APIDir).
		Str("crud_package", cfg.CRUDPackage).
		Str("types_import", cfg.ResolvedTypesImport()).
		Bool("with_rpc", cfg.WithRPC).
		Strs("omit_on_create", cfg.OmitOnCreate).
		Str("include_file", cfg.IncludeFile).
		Int("concurrency", cfg.Concurrency).
		Msg("Using configuration")
}

// WriteConfigWithComments writes the configuration to a YAML file with comments
func WriteConfigWithComments(cfg config.Config, path string) error {
	var b strings.Builder

	b.WriteString(`# preset selects the defaults for unset keys: "web" or "native"
preset: "` + cfg.Preset + `"
# schemaPath is the database.types.ts file produced by the Supabase CLI
schemaPath: "` + cfg.SchemaPath + `"
# typesDir receives bright.types.ts
typesDir: "` + cfg.TypesDir + `"
# apiDir receives Tables.ts and Rpc.ts
apiDir: "` + cfg.APIDir + `"
# crudPackage is the module exporting BrightBaseCRUD and BrightBaseFunctions
crudPackage: "` + cfg.CRUDPackage + `"
# typesImport is how files in apiDir import typesDir, derived when not set
`)
	if cfg.TypesImport != "" {
		b.WriteString(`typesImport: "` + cfg.TypesImport + `"` + "\n")
	} else {
		b.WriteString(`# typesImport: "@/types"` + "\n")
	}

	b.WriteString(`# withRpc generates Rpc.ts for database functions, and removes it when there are none
withRpc: ` + fmt.Sprintf("%t", cfg.WithRPC) + `
# omitOnCreate lists columns the database fills in on insert
omitOnCreate:
`)
	if len(cfg.OmitOnCreate) == 0 {
		b.WriteString("#  - id\n")
	}
	for _, col := range cfg.OmitOnCreate {
		b.WriteString(`  - "` + col + `"` + "\n")
	}

	b.WriteString(`
# includeFile lists the tables and functions to generate, see 'brightbase-gen getincludes'
# If not specified or the file doesn't exist, everything is generated
`)
	if cfg.IncludeFile != "" {
		b.WriteString(`includeFile: "` + cfg.IncludeFile + `"` + "\n")
	} else {
		b.WriteString(`# includeFile: "` + DefaultIncludesPath + `"` + "\n")
	}

	b.WriteString(`# concurrency bounds how many files are written at once
concurrency: ` + fmt.Sprintf("%d", cfg.Concurrency) + "\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
