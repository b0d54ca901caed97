package reports

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	key := ReportKey("3f1c2a")
	require.NoError(t, store.Put(ctx, key, []byte("# Report")))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "# Report", string(got))

	// Overwrites replace the previous content.
	require.NoError(t, store.Put(ctx, key, []byte("# Updated")))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "# Updated", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFileStore_NotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "unknown.md")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RejectsPathSeparators(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../secret", "a/b.md", `a\b.md`} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, store.Put(ctx, key, []byte("x")), ErrInvalidKey)
			_, err := store.Get(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestReportKey(t *testing.T) {
	assert.Equal(t, "abc.md", ReportKey("abc"))
}
