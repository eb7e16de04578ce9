package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subtracker/pkg/kv"
)

func TestNewFile(t *testing.T) {
	t.Parallel()

	t.Run("creates base directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "data")
		f, err := kv.NewFile(dir)
		require.NoError(t, err)
		assert.DirExists(t, dir)
		assert.True(t, filepath.IsAbs(f.Dir()))
	})

	t.Run("empty dir", func(t *testing.T) {
		t.Parallel()
		_, err := kv.NewFile("")
		assert.ErrorIs(t, err, kv.ErrInvalidConfig)
	})
}

func TestFile_GetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f, err := kv.NewFile(t.TempDir())
	require.NoError(t, err)

	_, err = f.Get(ctx, testKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, f.Set(ctx, testKey, []byte(`[{"id":"1"}]`)))
	got, err := f.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"1"}]`), got)

	require.NoError(t, f.Set(ctx, testKey, []byte(`[]`)))
	got, err = f.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	path, err := f.Path(testKey)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(f.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestFile_InvalidKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f, err := kv.NewFile(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", ".", "..", "../escape", "a/b", `a\b`} {
		assert.ErrorIs(t, f.Set(ctx, key, []byte("x")), kv.ErrInvalidKey, key)
		_, err := f.Get(ctx, key)
		assert.ErrorIs(t, err, kv.ErrInvalidKey, key)
	}
}

func TestFile_CorruptContentIsReturnedAsIs(t *testing.T) {
	t.Parallel()
	f, err := kv.NewFile(t.TempDir())
	require.NoError(t, err)

	path, err := f.Path(testKey)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	got, err := f.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("{not json"), got)
}

func TestFile_Watch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	writer, err := kv.NewFile(dir)
	require.NoError(t, err)
	reader, err := kv.NewFile(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := reader.Watch(ctx, testKey)
	require.NoError(t, err)

	require.NoError(t, writer.Set(context.Background(), "other", []byte("x")))
	require.NoError(t, writer.Set(context.Background(), testKey, []byte(`[]`)))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}

	cancel()
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 2*time.Second, 10*time.Millisecond)
}
