package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keepupapp/keepup-server/internal/auth"
	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/logger"
	"github.com/keepupapp/keepup-server/internal/store/sqlite"
	"github.com/keepupapp/keepup-server/internal/store/sqlstore"
	"github.com/keepupapp/keepup-server/internal/validation"
)

type testServices struct {
	store  *sqlstore.Store
	tokens *auth.TokenService
	auth   *AuthService
	tasks  *TaskService
	media  *MediaService
	tags   *TagService
}

// setupServices wires every service against a fresh SQLite file.
func setupServices(t *testing.T, policy OwnershipPolicy) *testServices {
	t.Helper()

	dir := t.TempDir()
	log := logger.Discard().Logger

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	v := validation.New()
	tags := NewTagService(s, log)

	return &testServices{
		store:  s,
		tokens: tokens,
		auth:   NewAuthService(s, tokens, v, log),
		tasks:  NewTaskService(s, v, policy, log),
		media:  NewMediaService(s, tags, v, policy, log),
		tags:   tags,
	}
}

func ptr[T any](v T) *T { return &v }

func tagNames(tags []*domain.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}
