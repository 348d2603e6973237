package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := OpenAt(filepath.Join(t.TempDir(), "data", "tailrun.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndRecent(t *testing.T) {
	db := openTemp(t)

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for i, cmd := range []string{"go build ./...", "go vet ./...", "go test ./..."} {
		require.NoError(t, db.Record(Entry{
			Command:     cmd,
			ExitCode:    i,
			OutputBytes: 100 * i,
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
			Duration:    time.Duration(i) * time.Second,
		}))
	}

	entries, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, "go test ./...", entries[0].Command)
	assert.Equal(t, "go build ./...", entries[2].Command)
	assert.Equal(t, 2, entries[0].ExitCode)
	assert.Equal(t, 200, entries[0].OutputBytes)
	assert.Equal(t, 2*time.Second, entries[0].Duration)
	assert.True(t, entries[0].StartedAt.Equal(base.Add(2*time.Minute)))
	assert.NotEmpty(t, entries[0].ID, "missing ID must be filled in")
}

func TestRecentLimit(t *testing.T) {
	db := openTemp(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Record(Entry{
			Command:   "true",
			StartedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := db.Recent(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecentEmpty(t *testing.T) {
	db := openTemp(t)

	entries, err := db.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordPreservesExplicitID(t *testing.T) {
	db := openTemp(t)

	require.NoError(t, db.Record(Entry{ID: "fixed-id", Command: "true", StartedAt: time.Now()}))

	entries, err := db.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed-id", entries[0].ID)
}

func TestOpenAtRecoversCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tailrun.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a sqlite database, promise"), 0o600))

	db, err := OpenAt(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Record(Entry{Command: "true", StartedAt: time.Now()}))

	matches, err := filepath.Glob(path + ".corrupt.*")
	require.NoError(t, err)
	assert.Len(t, matches, 1, "corrupt file must be preserved under a backup name")
}

func TestOpenAtEmptyPath(t *testing.T) {
	_, err := OpenAt("  ")
	assert.Error(t, err)
}

func TestOpenAtCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "tailrun.db")
	db, err := OpenAt(path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailrun.db")

	db, err := OpenAt(path)
	require.NoError(t, err)
	require.NoError(t, db.Record(Entry{Command: "echo hi", StartedAt: time.Now()}))
	require.NoError(t, db.Close())

	db, err = OpenAt(path)
	require.NoError(t, err)
	defer db.Close()

	entries, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "echo hi", entries[0].Command)
}

func TestDefaultPathHonorsHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TAILRUN_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "data", "tailrun.db"), DefaultPath())
}

func TestNilHandleIsSafe(t *testing.T) {
	var db *DB
	assert.NoError(t, db.Close())
	assert.Empty(t, db.Path())
	assert.Error(t, db.Record(Entry{}))
	_, err := db.Recent(1)
	assert.Error(t, err)
}
