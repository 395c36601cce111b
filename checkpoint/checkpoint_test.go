package checkpoint_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcheck/checkpoint"
	"pdfcheck/report"
)

func newStore(t *testing.T) *checkpoint.Store {
	t.Helper()
	return checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))
}

func TestStoreRoundTrip(t *testing.T) {
	store := newStore(t)

	state := checkpoint.NewState()
	state.Stats.Fold(report.Record{File: "a.pdf", Success: true})
	state.Stats.Fold(report.Record{File: "b.pdf", Kind: "MissingObject"})
	state.MarkProcessed("a.pdf")
	state.MarkProcessed("b.pdf")
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.False(t, loaded.Timestamp.IsZero())
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, loaded.ProcessedFiles)
	assert.Equal(t, 2, loaded.Stats.TotalProcessed)
	assert.Equal(t, 1, loaded.Stats.StructuralSuccess)
	assert.Equal(t, 1, loaded.Stats.ErrorTypes["MissingObject"])
	assert.True(t, loaded.ProcessedSet()["b.pdf"])
}

func TestStoreLoadMissing(t *testing.T) {
	state, err := newStore(t).Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStoreLoadTamperedPayload(t *testing.T) {
	store := newStore(t)
	state := checkpoint.NewState()
	state.Stats.Fold(report.Record{File: "a.pdf", Success: true})
	state.MarkProcessed("a.pdf")
	require.NoError(t, store.Save(state))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	tampered := bytes.Replace(data, []byte(`"a.pdf"`), []byte(`"z.pdf"`), 1)
	require.NotEqual(t, data, tampered)
	require.NoError(t, os.WriteFile(store.Path(), tampered, 0o644))

	_, err = store.Load()
	assert.ErrorIs(t, err, checkpoint.ErrCorrupt)
}

func TestStoreLoadGarbage(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("not json at all"), 0o644))

	_, err := store.Load()
	assert.ErrorIs(t, err, checkpoint.ErrCorrupt)
}

func TestStoreLoadCountMismatch(t *testing.T) {
	store := newStore(t)
	state := checkpoint.NewState()
	// Two results folded but only one file marked: a half-written record.
	state.Stats.Fold(report.Record{File: "a.pdf", Success: true})
	state.Stats.Fold(report.Record{File: "b.pdf", Success: true})
	state.MarkProcessed("a.pdf")
	require.NoError(t, store.Save(state))

	_, err := store.Load()
	assert.ErrorIs(t, err, checkpoint.ErrCorrupt)
}

func TestStoreSaveOverwritesAtomically(t *testing.T) {
	store := newStore(t)
	state := checkpoint.NewState()
	state.Stats.Fold(report.Record{File: "a.pdf", Success: true})
	state.MarkProcessed("a.pdf")
	require.NoError(t, store.Save(state))

	state.Stats.Fold(report.Record{File: "b.pdf", Success: true})
	state.MarkProcessed("b.pdf")
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Stats.TotalProcessed)

	// No temp file left behind.
	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStoreClear(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Clear()) // nothing to remove

	state := checkpoint.NewState()
	require.NoError(t, store.Save(state))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
