package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
	"github.com/keepupapp/keepup-server/internal/store/storetest"
)

func TestTaskService_CRUD(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})
	ctx := context.Background()
	alice := storetest.CreateUser(t, svc.store, "alice")

	task, err := svc.tasks.Create(ctx, alice.ID, CreateTaskRequest{
		Title:       "Buy milk",
		Description: ptr("2L"),
	})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, alice.ID, task.OwnerID)
	assert.Equal(t, 0, task.PriorityScore)
	assert.False(t, task.CreatedAt.IsZero())

	got, err := svc.tasks.Get(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "2L", *got.Description)

	updated, err := svc.tasks.Update(ctx, alice.ID, task.ID, UpdateTaskRequest{Title: "Buy oat milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Nil(t, updated.Description, "omitted description clears it")

	list, err := svc.tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy oat milk", list[0].Title)
	assert.Nil(t, list[0].Description)

	require.NoError(t, svc.tasks.Delete(ctx, alice.ID, task.ID))

	err = svc.tasks.Delete(ctx, alice.ID, task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaskService_PriorityScore(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})
	ctx := context.Background()
	alice := storetest.CreateUser(t, svc.store, "alice")

	task, err := svc.tasks.Create(ctx, alice.ID, CreateTaskRequest{Title: "urgent", PriorityScore: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, task.PriorityScore)

	// Updates never touch the score.
	updated, err := svc.tasks.Update(ctx, alice.ID, task.ID, UpdateTaskRequest{Title: "still urgent"})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.PriorityScore)
}

func TestTaskService_Validation(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})
	ctx := context.Background()
	alice := storetest.CreateUser(t, svc.store, "alice")

	_, err := svc.tasks.Create(ctx, alice.ID, CreateTaskRequest{Title: ""})
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
	assert.Contains(t, derr.Details, "title")
}

func TestTaskService_ListIsolation(t *testing.T) {
	svc := setupServices(t, OwnershipPolicy{})
	ctx := context.Background()
	alice := storetest.CreateUser(t, svc.store, "alice")
	bob := storetest.CreateUser(t, svc.store, "bob")

	_, err := svc.tasks.Create(ctx, alice.ID, CreateTaskRequest{Title: "a1"})
	require.NoError(t, err)
	_, err = svc.tasks.Create(ctx, alice.ID, CreateTaskRequest{Title: "a2"})
	require.NoError(t, err)
	_, err = svc.tasks.Create(ctx, bob.ID, CreateTaskRequest{Title: "b1"})
	require.NoError(t, err)

	list, err := svc.tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a1", list[0].Title)
	assert.Equal(t, "a2", list[1].Title)

	list, err = svc.tasks.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTaskService_ForeignAccess(t *testing.T) {
	tests := []struct {
		name     string
		policy   OwnershipPolicy
		wantCode domainerrors.Code
	}{
		{"hidden as not found", OwnershipPolicy{}, domainerrors.CodeNotFound},
		{"revealed as forbidden", OwnershipPolicy{RevealForbidden: true}, domainerrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setupServices(t, tt.policy)
			ctx := context.Background()
			alice := storetest.CreateUser(t, svc.store, "alice")
			bob := storetest.CreateUser(t, svc.store, "bob")

			task, err := svc.tasks.Create(ctx, alice.ID, CreateTaskRequest{Title: "private"})
			require.NoError(t, err)

			assertCode := func(err error) {
				t.Helper()
				var derr *domainerrors.Error
				require.ErrorAs(t, err, &derr)
				assert.Equal(t, tt.wantCode, derr.Code)
			}

			_, err = svc.tasks.Get(ctx, bob.ID, task.ID)
			assertCode(err)
			_, err = svc.tasks.Update(ctx, bob.ID, task.ID, UpdateTaskRequest{Title: "hijacked"})
			assertCode(err)
			assertCode(svc.tasks.Delete(ctx, bob.ID, task.ID))

			// Alice's task is untouched.
			got, err := svc.tasks.Get(ctx, alice.ID, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "private", got.Title)

			// A missing id is always NotFound.
			_, err = svc.tasks.Get(ctx, bob.ID, task.ID+100)
			assert.ErrorIs(t, err, domainerrors.ErrNotFound)
		})
	}
}
