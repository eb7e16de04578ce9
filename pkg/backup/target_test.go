package backup_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subtracker/pkg/backup"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, backup.ValidateName("subscription-backup-2024-01-25.json"))
	for _, name := range []string{"", ".", "..", "../x.json", "a/b.json", `a\b.json`, "a\x00b"} {
		assert.ErrorIs(t, backup.ValidateName(name), backup.ErrInvalidName, name)
	}
}

func TestLocalTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := backup.NewLocalTarget("")
	require.ErrorIs(t, err, backup.ErrInvalidConfig)

	dir := filepath.Join(t.TempDir(), "backups")
	target, err := backup.NewLocalTarget(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	require.NoError(t, target.Put(ctx, "a.json", []byte("[]")))

	rc, err := target.Open(ctx, "a.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "[]", string(data))

	info, err := os.Stat(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	_, err = target.Open(ctx, "missing.json")
	assert.ErrorIs(t, err, backup.ErrBackupNotFound)

	assert.ErrorIs(t, target.Put(ctx, "../escape.json", nil), backup.ErrInvalidName)
	_, err = target.Open(ctx, "../escape.json")
	assert.ErrorIs(t, err, backup.ErrInvalidName)
}

func TestBackupRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	target, err := backup.NewLocalTarget(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2024, 1, 25, 12, 0, 0, 0, time.UTC)
	name, err := backup.Backup(ctx, target, sample(), now)
	require.NoError(t, err)
	assert.Equal(t, "subscription-backup-2024-01-25.json", name)

	got, err := backup.Restore(ctx, target, name)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	t.Run("corrupt backup", func(t *testing.T) {
		require.NoError(t, target.Put(ctx, "broken.json", []byte(`{"id":"1"}`)))
		_, err := backup.Restore(ctx, target, "broken.json")
		requireValidationError(t, err, backup.MsgInvalidFormat)
	})

	t.Run("missing backup", func(t *testing.T) {
		_, err := backup.Restore(ctx, target, "nope.json")
		assert.ErrorIs(t, err, backup.ErrBackupNotFound)
	})
}
