package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	path := writeFile(t, dir, "main.c", "int main(void) { return 0; }\n")

	content, info, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "int main(void) { return 0; }\n", string(content))
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, path, info.Path)

	_, _, err = fsutil.ReadFile(ctx, filepath.Join(dir, "missing.c"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(ctx, dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)
}

func TestReadFile_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fsutil.ReadFile(ctx, "whatever.c")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	path := writeFile(t, dir, "a.c", "x;\n")
	_, info, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)

	modified, err := fsutil.CheckModified(ctx, info, true)
	require.NoError(t, err)
	assert.False(t, modified)

	require.NoError(t, os.WriteFile(path, []byte("y;\n"), 0o600))
	require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))

	modified, err = fsutil.CheckModified(ctx, info, false)
	require.NoError(t, err)
	assert.False(t, modified, "quick check cannot see same-size edits")

	modified, err = fsutil.CheckModified(ctx, info, true)
	require.NoError(t, err)
	assert.True(t, modified)

	require.NoError(t, os.Remove(path))
	modified, err = fsutil.CheckModified(ctx, info, false)
	require.NoError(t, err)
	assert.True(t, modified)

	_, err = fsutil.CheckModified(ctx, nil, true)
	require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	path := writeFile(t, dir, "b.c", "old")
	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	fresh := filepath.Join(dir, "fresh.c")
	require.NoError(t, fsutil.WriteAtomic(ctx, fresh, []byte("x"), 0))
	stat, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	err := fsutil.WriteAtomic(context.Background(), filepath.Join(t.TempDir(), "no", "such.c"), []byte("x"), 0)
	assert.Error(t, err)
}

func TestBackups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	path := writeFile(t, dir, "c.c", "original")

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path+fsutil.BackupSuffix)

	require.NoError(t, os.WriteFile(path, []byte("fixed"), 0o600))

	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.False(t, created, "existing backup is kept")

	restored, err := fsutil.RestoreBackup(ctx, path, fsutil.BackupModeSidecar)
	require.NoError(t, err)
	assert.True(t, restored)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestBackups_Disabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "d.c", "x")

	created, err := fsutil.CreateBackup(ctx, path, fsutil.DefaultBackupConfig())
	require.NoError(t, err)
	assert.False(t, created)

	created, err = fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, fsutil.BackupPath(path, fsutil.BackupModeNone))

	restored, err := fsutil.RestoreBackup(ctx, filepath.Join(dir, "none.c"), fsutil.BackupModeSidecar)
	require.NoError(t, err)
	assert.False(t, restored)

}
