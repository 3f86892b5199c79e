package output

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
	"go.uber.org/multierr"
)

// memFS is an in-memory FileSystem with injectable failures
type memFS struct {
	mu         sync.Mutex
	files      map[string][]byte
	failWrite  map[string]error
	failRemove map[string]error
	writes     int
}

func newMemFS() *memFS {
	return &memFS{
		files:      map[string][]byte{},
		failWrite:  map[string]error{},
		failRemove: map[string]error{},
	}
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFileAtomic(path string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failWrite[path]; err != nil {
		return err
	}
	m.writes++
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) Stat(path string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return memInfo{name: filepath.Base(path), size: int64(len(data))}, nil
}

func (m *memFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failRemove[path]; err != nil {
		return err
	}
	delete(m.files, path)
	return nil
}

type memInfo struct {
	name string
	size int64
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return 0o644 }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return false }
func (i memInfo) Sys() any           { return nil }

func TestApply_WritesAndReportsUnchanged(t *testing.T) {
	// Test: a second run over identical content writes nothing
	m := newMemFS()
	artifacts := []Artifact{
		WriteArtifact("types/bright.types.ts", []byte("a")),
		WriteArtifact("api/Tables.ts", []byte("b")),
	}

	results, err := Apply(context.Background(), m, artifacts, ApplyOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, StatusWritten, r.Status)
		assert.NotEmpty(t, r.DigestHex())
		assert.True(t, r.Changed())
	}
	assert.Equal(t, []byte("b"), m.files["api/Tables.ts"])

	results, err = Apply(context.Background(), m, artifacts, ApplyOptions{})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, StatusUnchanged, r.Status)
		assert.False(t, r.Changed())
	}
	assert.Equal(t, 2, m.writes)
}

func TestApply_OverwritesChangedContent(t *testing.T) {
	m := newMemFS()
	m.files["api/Tables.ts"] = []byte("old")

	results, err := Apply(context.Background(), m, []Artifact{WriteArtifact("api/Tables.ts", []byte("new"))}, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, results[0].Status)
	assert.Equal(t, []byte("new"), m.files["api/Tables.ts"])
}

func TestApply_SameSizeEditIsWritten(t *testing.T) {
	// Test: unchanged means byte-equal, the digest is only reported
	m := newMemFS()
	m.files["api/Tables.ts"] = []byte("const a = 1")
	content := []byte("const b = 1")

	results, err := Apply(context.Background(), m, []Artifact{WriteArtifact("api/Tables.ts", content)}, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, results[0].Status)
	assert.Equal(t, xxh3.Hash(content), results[0].Digest)
	assert.Equal(t, content, m.files["api/Tables.ts"])

	results, err = Apply(context.Background(), m, []Artifact{WriteArtifact("api/Tables.ts", content)}, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, results[0].Status)
	assert.Equal(t, xxh3.Hash(content), results[0].Digest)
	assert.Equal(t, 1, m.writes)
}

func TestApply_Delete(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
		want     Status
	}{
		{"prior artifact is removed", true, StatusDeleted},
		{"no prior artifact", false, StatusAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemFS()
			if tt.existing {
				m.files["api/Rpc.ts"] = []byte("stale")
			}

			results, err := Apply(context.Background(), m, []Artifact{DeleteArtifact("api/Rpc.ts")}, ApplyOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, results[0].Status)
			assert.NotContains(t, m.files, "api/Rpc.ts")
		})
	}
}

func TestApply_FailuresDoNotCascade(t *testing.T) {
	m := newMemFS()
	m.files["api/Rpc.ts"] = []byte("stale")
	m.failWrite["api/Tables.ts"] = errors.New("disk full")
	m.failRemove["api/Rpc.ts"] = errors.New("read-only")

	artifacts := []Artifact{
		WriteArtifact("types/bright.types.ts", []byte("a")),
		WriteArtifact("api/Tables.ts", []byte("b")),
		DeleteArtifact("api/Rpc.ts"),
	}

	results, err := Apply(context.Background(), m, artifacts, ApplyOptions{Concurrency: 1})
	require.Error(t, err)

	assert.Equal(t, StatusWritten, results[0].Status)
	assert.Equal(t, []byte("a"), m.files["types/bright.types.ts"])
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, StatusFailed, results[2].Status)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrWriteFailed)
	assert.NotErrorIs(t, errs[0], ErrDeleteFailed)
	assert.ErrorIs(t, errs[1], ErrDeleteFailed)

	var outErr *Error
	require.True(t, errors.As(errs[0], &outErr))
	assert.Equal(t, OpWrite, outErr.Op)
	assert.Equal(t, "api/Tables.ts", outErr.Path)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "read-only")
}

func TestApply_DryRun(t *testing.T) {
	m := newMemFS()
	m.files["api/Tables.ts"] = []byte("same")
	m.files["api/Rpc.ts"] = []byte("stale")

	artifacts := []Artifact{
		WriteArtifact("types/bright.types.ts", []byte("new")),
		WriteArtifact("api/Tables.ts", []byte("same")),
		DeleteArtifact("api/Rpc.ts"),
	}

	results, err := Apply(context.Background(), m, artifacts, ApplyOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, results[0].Status)
	assert.Equal(t, StatusUnchanged, results[1].Status)
	assert.Equal(t, StatusDeleted, results[2].Status)

	assert.Equal(t, 0, m.writes)
	assert.Contains(t, m.files, "api/Rpc.ts")
	assert.NotContains(t, m.files, "types/bright.types.ts")
}

func TestDiff(t *testing.T) {
	m := newMemFS()
	m.files["api/Tables.ts"] = []byte("current")

	results, err := Diff(m, []Artifact{
		WriteArtifact("api/Tables.ts", []byte("current")),
		WriteArtifact("types/bright.types.ts", []byte("missing")),
		DeleteArtifact("api/Rpc.ts"),
	})
	require.NoError(t, err)

	var stale []string
	for _, r := range results {
		if r.Changed() {
			stale = append(stale, r.Path)
		}
	}
	assert.Equal(t, []string{"types/bright.types.ts"}, stale)
}

func TestApply_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newMemFS()
	results, err := Apply(ctx, m, []Artifact{WriteArtifact("a.ts", []byte("a"))}, ApplyOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Empty(t, m.files)
}

func TestApply_OSFileSystem(t *testing.T) {
	dir := t.TempDir()
	tables := filepath.Join(dir, "src", "api", "Tables.ts")
	rpc := filepath.Join(dir, "src", "api", "Rpc.ts")

	results, err := Apply(context.Background(), OSFileSystem{}, []Artifact{
		WriteArtifact(tables, []byte("export default {}\n")),
		DeleteArtifact(rpc),
	}, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, results[0].Status)
	assert.Equal(t, StatusAbsent, results[1].Status)

	data, err := os.ReadFile(tables)
	require.NoError(t, err)
	assert.Equal(t, "export default {}\n", string(data))

	info, err := os.Stat(tables)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, os.WriteFile(rpc, []byte("stale"), 0o644))
	results, err = Apply(context.Background(), OSFileSystem{}, []Artifact{DeleteArtifact(rpc)}, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, results[0].Status)
	assert.NoFileExists(t, rpc)
}

func TestOSFileSystem_WriteFileAtomicFailureLeavesNoTempFile(t *testing.T) {
	// Test: when the rename cannot happen the target and directory are left as they were
	dir := t.TempDir()
	target := filepath.Join(dir, "Tables.ts")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o644))

	err := OSFileSystem{}.WriteFileAtomic(target, []byte("new"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to replace file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tables.ts", entries[0].Name())
	assert.FileExists(t, filepath.Join(target, "keep"))
}
