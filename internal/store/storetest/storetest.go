// Package storetest is a behavioural suite every store.Store implementation
// must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/store"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run executes the whole suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
	t.Run("Media", func(t *testing.T) { testMedia(t, newStore(t)) })
	t.Run("MediaList", func(t *testing.T) { testMediaList(t, newStore(t)) })
	t.Run("Tags", func(t *testing.T) { testTags(t, newStore(t)) })
	t.Run("TagRace", func(t *testing.T) { testTagRace(t, newStore(t)) })
}

func ptr[T any](v T) *T { return &v }

// CreateUser inserts a user with a placeholder digest.
func CreateUser(t *testing.T, s store.Store, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, PasswordHash: "digest", CreatedAt: time.Now()}
	require.NoError(t, s.CreateUser(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	alice := CreateUser(t, s, "alice")

	got, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "digest", got.PasswordHash)
	assert.True(t, alice.CreatedAt.Equal(got.CreatedAt))

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	err = s.CreateUser(ctx, &domain.User{Username: "alice", PasswordHash: "x", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	// Usernames are matched exactly.
	upper := CreateUser(t, s, "Alice")
	assert.NotEqual(t, alice.ID, upper.ID)

	_, err = s.GetUserByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = s.GetUser(ctx, 999999)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	require.NoError(t, s.UpdateUserPassword(ctx, alice.ID, "new-digest"))
	got, err = s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-digest", got.PasswordHash)

	assert.ErrorIs(t, s.UpdateUserPassword(ctx, 999999, "x"), store.ErrUserNotFound)
}

func testTasks(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice")
	bob := CreateUser(t, s, "bob")

	milk := &domain.Task{Title: "Buy milk", CreatedAt: time.Now(), OwnerID: alice.ID}
	require.NoError(t, s.CreateTask(ctx, milk))
	require.NotZero(t, milk.ID)

	bread := &domain.Task{Title: "Buy bread", Description: ptr("wholemeal"), CreatedAt: time.Now(), PriorityScore: 3, OwnerID: alice.ID}
	require.NoError(t, s.CreateTask(ctx, bread))

	other := &domain.Task{Title: "Walk dog", CreatedAt: time.Now(), OwnerID: bob.ID}
	require.NoError(t, s.CreateTask(ctx, other))

	got, err := s.GetTask(ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "wholemeal", *got.Description)
	assert.Equal(t, 3, got.PriorityScore)
	assert.Equal(t, alice.ID, got.OwnerID)
	assert.True(t, bread.CreatedAt.Equal(got.CreatedAt))

	got, err = s.GetTask(ctx, milk.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)

	tasks, err := s.ListTasksByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, milk.ID, tasks[0].ID)
	assert.Equal(t, bread.ID, tasks[1].ID)

	empty, err := s.ListTasksByOwner(ctx, 999999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	milk.Title = "Buy oat milk"
	milk.Description = ptr("two cartons")
	require.NoError(t, s.UpdateTask(ctx, milk))
	got, err = s.GetTask(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "two cartons", *got.Description)

	require.NoError(t, s.DeleteTask(ctx, milk.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, milk.ID), store.ErrTaskNotFound)
	_, err = s.GetTask(ctx, milk.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, s.UpdateTask(ctx, milk), store.ErrTaskNotFound)
}

func mustTag(t *testing.T, s store.Store, name string) *domain.Tag {
	t.Helper()
	tag, _, err := s.FindOrCreateTag(context.Background(), name)
	require.NoError(t, err)
	return tag
}

func testMedia(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice")

	anime := mustTag(t, s, "anime")
	mecha := mustTag(t, s, "mecha")

	edited := time.Date(2024, 5, 1, 10, 30, 0, 123456789, time.UTC)
	m := &domain.Media{
		Name:       "Show A",
		Category:   "anime",
		Status:     "watching",
		Progress:   3,
		Rating:     ptr(17),
		LastEdited: edited,
		OwnerID:    alice.ID,
		Tags:       []*domain.Tag{mecha, anime},
	}
	require.NoError(t, s.CreateMedia(ctx, m))
	require.NotZero(t, m.ID)

	got, err := s.GetMedia(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Show A", got.Name)
	assert.Equal(t, 3, got.Progress)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 17, *got.Rating)
	assert.True(t, m.LastEdited.Equal(got.LastEdited), "want %s got %s", m.LastEdited, got.LastEdited)
	assert.Equal(t, []string{"mecha", "anime"}, tagNames(got.Tags))

	// Field update without touching tags.
	got.Status = "completed"
	got.Rating = nil
	got.Tags = nil
	require.NoError(t, s.UpdateMedia(ctx, got, false))

	again, err := s.GetMedia(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", again.Status)
	assert.Nil(t, again.Rating)
	assert.Equal(t, []string{"mecha", "anime"}, tagNames(again.Tags))

	// Replace tags.
	again.Tags = []*domain.Tag{anime}
	require.NoError(t, s.UpdateMedia(ctx, again, true))
	again, err = s.GetMedia(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"anime"}, tagNames(again.Tags))

	// Clear tags.
	require.NoError(t, s.SetMediaTags(ctx, m.ID, nil))
	tags, err := s.GetMediaTags(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	require.NoError(t, s.SetMediaTags(ctx, m.ID, []int64{anime.ID, anime.ID, mecha.ID}))
	tags, err = s.GetMediaTags(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, anime.ID, tags[0].ID)
	assert.Equal(t, mecha.ID, tags[1].ID)

	require.NoError(t, s.DeleteMedia(ctx, m.ID))
	assert.ErrorIs(t, s.DeleteMedia(ctx, m.ID), store.ErrMediaNotFound)
	_, err = s.GetMedia(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrMediaNotFound)
	assert.ErrorIs(t, s.UpdateMedia(ctx, m, true), store.ErrMediaNotFound)
	assert.ErrorIs(t, s.SetMediaTags(ctx, m.ID, []int64{anime.ID}), store.ErrMediaNotFound)

	// Tags outlive every media that referenced them.
	all, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testMediaList(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice")
	bob := CreateUser(t, s, "bob")
	fantasy := mustTag(t, s, "fantasy")

	create := func(owner *domain.User, name, category, status string, tags ...*domain.Tag) *domain.Media {
		m := &domain.Media{Name: name, Category: category, Status: status, LastEdited: time.Now(), OwnerID: owner.ID, Tags: tags}
		require.NoError(t, s.CreateMedia(ctx, m))
		return m
	}

	book := create(alice, "Book A", "book", "reading", fantasy)
	game := create(alice, "Game A", "game", "completed")
	book2 := create(alice, "Book B", "book", "completed", fantasy)
	create(bob, "Bob's Book", "book", "reading", fantasy)

	items, err := s.ListMediaByOwner(ctx, alice.ID, domain.MediaFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{book.ID, game.ID, book2.ID}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, []string{"fantasy"}, tagNames(items[0].Tags))
	assert.NotNil(t, items[1].Tags)
	assert.Empty(t, items[1].Tags)

	books, err := s.ListMediaByOwner(ctx, alice.ID, domain.MediaFilter{Category: "book"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	done, err := s.ListMediaByOwner(ctx, alice.ID, domain.MediaFilter{Category: "book", Status: "completed"})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, book2.ID, done[0].ID)
	assert.Equal(t, []string{"fantasy"}, tagNames(done[0].Tags))

	none, err := s.ListMediaByOwner(ctx, 999999, domain.MediaFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testTags(t *testing.T, s store.Store) {
	ctx := context.Background()

	tag, created, err := s.FindOrCreateTag(ctx, "slice of life")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, tag.ID)

	same, created, err := s.FindOrCreateTag(ctx, "slice of life")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tag.ID, same.ID)

	err = s.CreateTag(ctx, &domain.Tag{Name: "slice of life"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.GetTagByName(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrTagNotFound)

	mustTag(t, s, "action")
	mustTag(t, s, "zombies")

	all, err := s.ListTags(ctx)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, tag := range all {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"action", "slice of life", "zombies"}, names)
}

func testTagRace(t *testing.T, s store.Store) {
	ctx := context.Background()
	const workers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[int64]int)
		created int
		errs    []error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tag, wasCreated, err := s.FindOrCreateTag(ctx, "isekai")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[tag.ID]++
			if wasCreated {
				created++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, ids, 1, "every caller must resolve to the same tag")
	assert.Equal(t, 1, created)
}

func tagNames(tags []*domain.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}
