package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/memegen/internal/domain"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/static/memes/")
	require.NoError(t, err)

	data := []byte("fake png bytes")
	meme, err := store.Save(context.Background(), data, SaveOptions{
		TemplateID: "drake", Format: "png", Width: 400, Height: 400,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(meme.Reference, "/static/memes/drake_"), "got %s", meme.Reference)
	assert.True(t, strings.HasSuffix(meme.Reference, ".png"))
	assert.Equal(t, 400, meme.Width)
	assert.Equal(t, 400, meme.Height)
	assert.WithinDuration(t, time.Now(), meme.CreatedAt, 5*time.Second)

	written, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(meme.Reference, "/static/memes/")))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, written))
}

func TestLocalStoreConcurrentSaves(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/static/memes")
	require.NoError(t, err)

	const n = 20
	refs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meme, err := store.Save(context.Background(), []byte(fmt.Sprintf("payload-%d", i)), SaveOptions{
				TemplateID: "drake", Format: "png", Width: 1, Height: 1,
			})
			assert.NoError(t, err)
			refs[i] = meme.Reference
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, ref := range refs {
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestLocalStoreWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "out")
	// a plain file where the store expects a directory
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	_, err := NewLocalStore(blocked, "/static/memes")
	require.ErrorIs(t, err, domain.ErrStoreWrite)
}

func TestLocalStoreSaveFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/static/memes")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, err = store.Save(context.Background(), []byte("x"), SaveOptions{
		TemplateID: "drake", Format: "png",
	})
	require.ErrorIs(t, err, domain.ErrStoreWrite)
}

func TestObjectNameShape(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	name := newObjectName(SaveOptions{TemplateID: "distracted", Format: "png"}, now)

	assert.True(t, strings.HasPrefix(name, "distracted_20250314_092653_"), "got %s", name)
	assert.True(t, strings.HasSuffix(name, ".png"))

	parts := strings.Split(strings.TrimSuffix(name, ".png"), "_")
	require.Len(t, parts, 4)
	assert.Len(t, parts[3], 8)
}
