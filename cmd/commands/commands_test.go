package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/brightside-developer/brightbase-gen/internal/config"
	"github.com/brightside-developer/brightbase-gen/internal/includes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaText = `export type Database = {
  public: {
    Tables: {
      users: { Row: { id: string } }
      posts: { Row: { id: string } }
    }
    Functions: {
      ping: { Args: Record<PropertyKey, never>; Returns: undefined }
    }
  }
}
`

// run executes the CLI with args and returns the log output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func newProject(t *testing.T, schemaPath string) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, schemaPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(schemaText), 0o644))
	return root
}

func TestGenerateThenCheck(t *testing.T) {
	root := newProject(t, "src/types/database.types.ts")

	_, err := run(t, "check", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 generated file(s) out of date")

	logs, err := run(t, "generate", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, logs, "Generated bindings")
	assert.FileExists(t, filepath.Join(root, "src", "api", "Tables.ts"))
	assert.FileExists(t, filepath.Join(root, "src", "types", "bright.types.ts"))
	assert.NoFileExists(t, filepath.Join(root, "src", "api", "Rpc.ts"))

	logs, err = run(t, "check", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, logs, "up to date")
}

func TestGenerate_NativePresetFromPackageJSON(t *testing.T) {
	root := newProject(t, "types/database.types.ts")
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"dependencies": {"bsdweb": "^0.4.0"}}`), 0o644))

	_, err := run(t, "generate", "--root", root)
	require.NoError(t, err)

	rpc, err := os.ReadFile(filepath.Join(root, "api", "Rpc.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(rpc), "const Functions: (keyof FunctionsType)[] = ['ping']")
}

func TestGenerate_FlagOverrides(t *testing.T) {
	root := newProject(t, "supabase/schema.ts")

	_, err := run(t, "generate", "--root", root,
		"--schema", "supabase/schema.ts",
		"--api-dir", "lib/api",
		"--crud-package", "@acme/bright",
		"--omit-on-create", "uuid",
	)
	require.NoError(t, err)

	tables, err := os.ReadFile(filepath.Join(root, "lib", "api", "Tables.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(tables), "import { BrightBaseCRUD } from '@acme/bright'")
	assert.Contains(t, string(tables), "OmitOnCreate: 'uuid'")

	support, err := os.ReadFile(filepath.Join(root, "src", "types", "bright.types.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(support), "from '../../supabase/schema'")
}

func TestGenerate_DryRun(t *testing.T) {
	root := newProject(t, "src/types/database.types.ts")

	_, err := run(t, "generate", "--root", root, "--dry-run")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "src", "api", "Tables.ts"))
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("missing schema", func(t *testing.T) {
		_, err := run(t, "generate", "--root", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema unreadable")
	})

	t.Run("invalid flag value", func(t *testing.T) {
		root := newProject(t, "src/types/database.types.ts")
		_, err := run(t, "generate", "--root", root, "--concurrency", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := run(t, "generate", "--log-level", "loud")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse log level")
	})
}

func TestInit(t *testing.T) {
	root := t.TempDir()

	_, err := run(t, "init", "--root", root, "--preset", "native")
	require.NoError(t, err)

	path := filepath.Join(root, "brightbase.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	want, _ := config.Preset(config.PresetNative)
	assert.Equal(t, want, cfg)

	_, err = run(t, "init", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", "--root", root, "--force", "--preset", "web")
	require.NoError(t, err)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.PresetWeb, cfg.Preset)
}

func TestGenerate_UsesConfigFile(t *testing.T) {
	root := newProject(t, "db/types.ts")
	require.NoError(t, os.WriteFile(filepath.Join(root, "brightbase.yaml"), []byte("schemaPath: ./db/types.ts\napiDir: ./app/api\n"), 0o644))

	_, err := run(t, "generate", "--root", root)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "app", "api", "Tables.ts"))

	// --config resolves paths next to the config file
	_, err = run(t, "generate", "--config", filepath.Join(root, "brightbase.yaml"), "--api-dir", "./out")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "out", "Tables.ts"))
}

func TestGetIncludes(t *testing.T) {
	root := newProject(t, "types/database.types.ts")

	_, err := run(t, "getincludes", "--root", root, "--preset", "native")
	require.NoError(t, err)

	path := filepath.Join(root, "brightbase.includes.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# - users\n# - posts\n")
	assert.Contains(t, string(data), "# - ping\n")

	inc, err := includes.LoadIncludesFile(path)
	require.NoError(t, err)
	assert.Empty(t, inc.Tables)

	_, err = run(t, "getincludes", "--root", root, "--preset", "native")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// once uncommented the selection narrows generation
	require.NoError(t, os.WriteFile(path, []byte("tables:\n- posts\n"), 0o644))
	_, err = run(t, "generate", "--root", root, "--preset", "native", "--include-file", "brightbase.includes.yaml")
	require.NoError(t, err)
	tables, err := os.ReadFile(filepath.Join(root, "api", "Tables.ts"))
	require.NoError(t, err)
	assert.NotContains(t, string(tables), "Users")
	assert.Contains(t, string(tables), "Posts")
}
