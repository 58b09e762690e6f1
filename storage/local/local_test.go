package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/janelia-flyem/graft/storage"
	"github.com/stretchr/testify/require"
)

func TestLocalEngineRegistered(t *testing.T) {
	eng := storage.GetEngine("local")
	if eng == nil {
		t.Fatalf("init does not register 'local' engine")
	}
	store, err := storage.OpenStore(t.TempDir())
	require.NoError(t, err)
	_, ok := store.(*Store)
	require.True(t, ok)
}

func TestReadWrite(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.WriteAll(ctx, "run1/step3.pb", []byte("first")))
	require.NoError(t, store.WriteAll(ctx, "run1/step3.pb", []byte("second")))

	data, err := store.ReadAll(ctx, "run1/step3.pb")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), data)

	abs := filepath.Join(root, "run1", "step3.pb")
	data, err = store.ReadAll(ctx, abs)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), data)

	entries, err := os.ReadDir(filepath.Join(root, "run1"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files should not remain")
}

func TestReadMissing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.ReadAll(context.Background(), "nope.pb")
	require.Error(t, err)
	require.True(t, errors.Is(err, storage.ErrNotFound))
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFailedWriteKeepsOld(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.WriteAll(ctx, "keep.pb", []byte("original")))

	// A directory in place of the destination makes the final rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.pb", "child"), 0755))
	require.Error(t, store.WriteAll(ctx, "dir.pb", []byte("new")))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".tmp")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, store.WriteAll(cancelled, "keep.pb", []byte("replacement")))

	data, err := store.ReadAll(ctx, "keep.pb")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), data)
}
