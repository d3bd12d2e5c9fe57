package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesystem/core"
)

func TestStorePersistAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")
	ctx := context.Background()

	store := New(path, "lifeSystemData")
	_, err := store.Load(ctx)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, store.Save(ctx, []byte(`{"level":4,"name":"Ada"}`)))

	// ensure file written
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s", path)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}

	reloaded := New(path, "lifeSystemData")
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":4,"name":"Ada"}`, string(got))
}

func TestStoreKeepsOtherSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	require.NoError(t, New(path, "a").Save(ctx, []byte(`{"level":1}`)))
	require.NoError(t, New(path, "b").Save(ctx, []byte(`{"level":2}`)))

	got, err := New(path, "a").Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":1}`, string(got))
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lifeSystemData": {`), 0o644))
	ctx := context.Background()

	store := New(path, "lifeSystemData")
	_, err := store.Load(ctx)
	var de *core.DeserializationError
	require.True(t, errors.As(err, &de), "got %v", err)

	require.NoError(t, store.Save(ctx, []byte(`{"level":1}`)))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":1}`, string(got))
}

func TestStoreRejectsInvalidJSON(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "state.json"), "s")
	assert.Error(t, store.Save(context.Background(), []byte("not json")))
}
