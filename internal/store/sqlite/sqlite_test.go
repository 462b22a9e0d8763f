package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepupapp/keepup-server/internal/logger"
	"github.com/keepupapp/keepup-server/internal/store"
	"github.com/keepupapp/keepup-server/internal/store/sqlstore"
	"github.com/keepupapp/keepup-server/internal/store/storetest"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger.Discard().Logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var fk int
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"user", "task", "media", "tag", "mediatag_link"} {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s not found", table)
	}

	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath, nil)
	require.NoError(t, err)
	storetest.CreateUser(t, s, "alice")
	require.NoError(t, s.Close())

	// Re-open should work (schema is idempotent) and keep data.
	s2, err := Open(dbPath, nil)
	require.NoError(t, err)
	defer s2.Close()

	u, err := s2.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestRatingCheckConstraint(t *testing.T) {
	s := newTestStore(t)
	alice := storetest.CreateUser(t, s, "alice")

	_, err := s.DB().Exec(
		`INSERT INTO media (name, category, status, progress, rating, last_edited, user_id) VALUES ('x', 'y', 'z', 0, 21, '2024-01-01T00:00:00Z', ?)`,
		alice.ID)
	assert.Error(t, err)
}

func TestStoreSuite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newTestStore(t)
	})
}
