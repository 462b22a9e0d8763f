package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
)

func TestTagService_ResolveOrCreate(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})
	ctx := context.Background()

	first, created, err := svc.tags.ResolveOrCreate(ctx, "Action")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "action", first.Name)

	for _, variant := range []string{"action", "  ACTION ", "Action\t"} {
		tag, created, err := svc.tags.ResolveOrCreate(ctx, variant)
		require.NoError(t, err)
		assert.False(t, created, variant)
		assert.Equal(t, first.ID, tag.ID, variant)
	}

	all, err := svc.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTagService_ResolveOrCreate_Empty(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})

	_, _, err := svc.tags.ResolveOrCreate(context.Background(), "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTagService_ResolveOrCreate_TooLong(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})
	ctx := context.Background()

	// Both share the first 64 runes; neither may be merged into a shared tag.
	prefix := strings.Repeat("a", 64)
	for _, raw := range []string{prefix + "b", prefix + "c"} {
		_, _, err := svc.tags.ResolveOrCreate(ctx, raw)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	}

	tag, created, err := svc.tags.ResolveOrCreate(ctx, prefix)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, prefix, tag.Name)

	all, err := svc.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTagService_ResolveAll(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})

	tags, err := svc.tags.ResolveAll(context.Background(), []string{"Sci Fi", "drama", "sci  fi", "DRAMA", "comedy"})
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "sci fi", tags[0].Name)
	assert.Equal(t, "drama", tags[1].Name)
	assert.Equal(t, "comedy", tags[2].Name)
}

func TestTagService_List_Ordered(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})
	ctx := context.Background()

	_, err := svc.tags.ResolveAll(ctx, []string{"zeta", "alpha", "mu"})
	require.NoError(t, err)

	all, err := svc.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "mu", all[1].Name)
	assert.Equal(t, "zeta", all[2].Name)
}
