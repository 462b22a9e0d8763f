package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepupapp/keepup-server/internal/store"
	"github.com/keepupapp/keepup-server/internal/store/storetest"
)

const dsnEnv = "KEEPUP_TEST_POSTGRES_DSN"

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}

	ctx := context.Background()
	s, err := Open(ctx, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.DB().ExecContext(ctx, `TRUNCATE mediatag_link, media, task, tag, "user" RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return s
}

func TestStoreSuite(t *testing.T) {
	if os.Getenv(dsnEnv) == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	storetest.Run(t, newTestStore)
}

func TestDialect_IsUniqueViolation(t *testing.T) {
	assert.True(t, Dialect.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, Dialect.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, Dialect.IsUniqueViolation(errors.New("UNIQUE constraint failed")))
}
