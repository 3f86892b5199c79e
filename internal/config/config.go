package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Preset names mirror the two client flavours the bindings are generated for
const (
	PresetWeb    = "web"
	PresetNative = "native"
)

// Output file names
const (
	SupportTypesFile = "bright.types.ts"
	TablesFile       = "Tables.ts"
	RpcFile          = "Rpc.ts"
)

// Config holds the configuration for binding generation
type Config struct {
	// Preset selects the defaults the remaining fields start from
	Preset string `yaml:"preset" validate:"omitempty,oneof=web native"`

	// Root is the directory relative paths are resolved against
	Root string `yaml:"-"`

	// Paths
	SchemaPath string `yaml:"schemaPath" validate:"required"`
	TypesDir   string `yaml:"typesDir" validate:"required"`
	APIDir     string `yaml:"apiDir" validate:"required"`

	// Import configuration
	CRUDPackage string `yaml:"crudPackage" validate:"required"`
	TypesImport string `yaml:"typesImport"` // derived from apiDir/typesDir when empty

	// Feature flags
	WithRPC bool `yaml:"withRpc"`

	// Columns the schema manages itself, omitted from create payloads
	OmitOnCreate []string `yaml:"omitOnCreate" validate:"dive,required"`

	IncludeFile string `yaml:"includeFile"`
	Concurrency int    `yaml:"concurrency" validate:"min=1,max=16"`
}

// Default returns the web preset
func Default() Config {
	cfg, _ := Preset(PresetWeb)
	return cfg
}

// Preset returns the defaults for the named preset
func Preset(name string) (Config, error) {
	cfg := Config{
		Preset:       PresetWeb,
		Root:         ".",
		SchemaPath:   "./src/types/database.types.ts",
		TypesDir:     "./src/types",
		APIDir:       "./src/api",
		CRUDPackage:  "brightside-developer",
		WithRPC:      false,
		OmitOnCreate: []string{"id", "created_at"},
		Concurrency:  3,
	}

	switch name {
	case "", PresetWeb:
	case PresetNative:
		cfg.Preset = PresetNative
		cfg.SchemaPath = "./types/database.types.ts"
		cfg.TypesDir = "./types"
		cfg.APIDir = "./api"
		cfg.CRUDPackage = "bsdweb"
		cfg.WithRPC = true
	default:
		return Config{}, fmt.Errorf("unknown preset %q (want %q or %q)", name, PresetWeb, PresetNative)
	}

	return cfg, nil
}

// Load loads configuration from a YAML file. Keys missing from the file keep
// the defaults of the preset the file names.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of its preset defaults
func Parse(data []byte) (Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg, err := Preset(head.Preset)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as plain YAML
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the struct tags of cfg
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Resolve joins a configured path with Root unless it is already absolute
func (c Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	root := c.Root
	if root == "" {
		root = "."
	}
	return filepath.Join(root, path)
}

// SchemaFile is the resolved location of the schema text
func (c Config) SchemaFile() string {
	return c.Resolve(c.SchemaPath)
}

// SupportTypesPath is where bright.types.ts is written
func (c Config) SupportTypesPath() string {
	return filepath.Join(c.Resolve(c.TypesDir), SupportTypesFile)
}

// TablesPath is where Tables.ts is written
func (c Config) TablesPath() string {
	return filepath.Join(c.Resolve(c.APIDir), TablesFile)
}

// RpcPath is where Rpc.ts is written or removed from
func (c Config) RpcPath() string {
	return filepath.Join(c.Resolve(c.APIDir), RpcFile)
}

// IncludePath is the resolved include file, empty when none is configured
func (c Config) IncludePath() string {
	if c.IncludeFile == "" {
		return ""
	}
	return c.Resolve(c.IncludeFile)
}

// ResolvedTypesImport returns the module specifier the api files use to
// import from the types directory
func (c Config) ResolvedTypesImport() string {
	if c.TypesImport != "" {
		return strings.TrimSuffix(c.TypesImport, "/")
	}
	return relativeImport(c.Resolve(c.APIDir), c.Resolve(c.TypesDir))
}

// DatabaseTypesImport returns the specifier bright.types.ts uses to import the schema file
func (c Config) DatabaseTypesImport() string {
	return c.schemaImportFrom(c.Resolve(c.TypesDir))
}

// SchemaImport returns the specifier Rpc.ts uses to import the schema file
func (c Config) SchemaImport() string {
	return c.schemaImportFrom(c.Resolve(c.APIDir))
}

func (c Config) schemaImportFrom(dir string) string {
	rel := relativeImport(dir, filepath.Dir(c.SchemaFile()))

	base := filepath.Base(c.SchemaPath)
	for _, ext := range []string{".d.ts", ".ts", ".tsx"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	if rel == "." {
		return "./" + base
	}
	return rel + "/" + base
}

// relativeImport returns an ES module specifier from one directory to another.
// Both sides are made absolute first so a mix of absolute and relative
// directories still yields a relative specifier.
func relativeImport(from, to string) string {
	if abs, err := filepath.Abs(from); err == nil {
		from = abs
	}
	if abs, err := filepath.Abs(to); err == nil {
		to = abs
	}
	rel, err := filepath.Rel(from, to)
	if err != nil {
		// Different volumes, fall back to the target as given
		return filepath.ToSlash(to)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return rel
	}
	return "./" + rel
}
