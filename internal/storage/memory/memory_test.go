package memory

import (
	"context"
	"sync"
	"testing"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstPage() filters.Filters {
	f := filters.Filters{}
	f.Normalize()
	return f
}

type fixture struct {
	store *Store
	alice *models.User
	bob   *models.User
	films *models.Category
	drama *models.Genre
	title *models.Title
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := New()
	alice, err := s.Users.Insert(ctx, &models.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := s.Users.Insert(ctx, &models.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	films, err := s.Categories.Insert(ctx, "Films", "films")
	require.NoError(t, err)
	drama, err := s.Genres.Insert(ctx, "Drama", "drama")
	require.NoError(t, err)
	title, err := s.Titles.Insert(ctx, storage.TitleRecord{
		Name:       "The Godfather",
		Year:       1972,
		CategoryID: &films.ID,
		GenreIDs:   []int64{drama.ID},
	})
	require.NoError(t, err)
	return &fixture{store: s, alice: alice, bob: bob, films: films, drama: drama, title: title}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	s := fx.store

	assert.Equal(t, models.RoleUser, fx.alice.Role)

	_, err := s.Users.Insert(ctx, &models.User{Username: "alice", Email: "x@example.com"})
	assert.ErrorIs(t, err, storage.ErrConflict)
	_, err = s.Users.Insert(ctx, &models.User{Username: "carol", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	got, err := s.Users.GetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, fx.alice.ID, got.ID)

	got.IsActive = true
	updated, err := s.Users.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.True(t, updated.UpdatedAt.After(fx.alice.UpdatedAt))

	users, total, err := s.Users.List(ctx, "B", firstPage())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "bob", users[0].Username)

	_, err = s.Users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTitleRating(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	s := fx.store

	assert.Nil(t, fx.title.Rating)

	carol, err := s.Users.Insert(ctx, &models.User{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)
	for user, score := range map[int64]int{fx.alice.ID: 8, fx.bob.ID: 6, carol.ID: 10} {
		_, err := s.Reviews.Insert(ctx, fx.title.ID, user, "text", score)
		require.NoError(t, err)
	}

	got, err := s.Titles.Get(ctx, fx.title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 8.0, *got.Rating, 1e-9)
}

func TestReviewUniqueness(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	s := fx.store

	review, err := s.Reviews.Insert(ctx, fx.title.ID, fx.alice.ID, "great", 9)
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Author)

	_, err = s.Reviews.Insert(ctx, fx.title.ID, fx.alice.ID, "again", 5)
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.Reviews.Insert(ctx, fx.title.ID+100, fx.alice.ID, "missing", 5)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConcurrentReviewsSameAuthor(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := fx.store.Reviews.Insert(ctx, fx.title.ID, fx.bob.ID, "race", 7); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestDeleteTitleCascades(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	s := fx.store

	review, err := s.Reviews.Insert(ctx, fx.title.ID, fx.alice.ID, "great", 9)
	require.NoError(t, err)
	comment, err := s.Comments.Insert(ctx, review.ID, fx.bob.ID, "agreed")
	require.NoError(t, err)

	require.NoError(t, s.Titles.Delete(ctx, fx.title.ID))

	_, err = s.Reviews.Get(ctx, fx.title.ID, review.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.Comments.Get(ctx, review.ID, comment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.Titles.Delete(ctx, fx.title.ID), storage.ErrNotFound)
}

func TestDeleteCategoryKeepsTitle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	s := fx.store

	require.NoError(t, s.Categories.Delete(ctx, "films"))
	got, err := s.Titles.Get(ctx, fx.title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)

	require.NoError(t, s.Genres.Delete(ctx, "drama"))
	got, err = s.Titles.Get(ctx, fx.title.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Genres)

	assert.ErrorIs(t, s.Genres.Delete(ctx, "drama"), storage.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	s := fx.store

	review, err := s.Reviews.Insert(ctx, fx.title.ID, fx.alice.ID, "great", 9)
	require.NoError(t, err)
	bobComment, err := s.Comments.Insert(ctx, review.ID, fx.bob.ID, "agreed")
	require.NoError(t, err)

	require.NoError(t, s.Users.Delete(ctx, fx.bob.ID))
	_, err = s.Comments.Get(ctx, review.ID, bobComment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.Reviews.Get(ctx, fx.title.ID, review.ID)
	assert.NoError(t, err)

	require.NoError(t, s.Users.Delete(ctx, fx.alice.ID))
	_, err = s.Reviews.Get(ctx, fx.title.ID, review.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTitleList(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	s := fx.store

	comedy, err := s.Genres.Insert(ctx, "Comedy", "comedy")
	require.NoError(t, err)
	_, err = s.Titles.Insert(ctx, storage.TitleRecord{Name: "Airplane!", Year: 1980, GenreIDs: []int64{comedy.ID}})
	require.NoError(t, err)

	titles, total, err := s.Titles.List(ctx, storage.TitleQuery{}, firstPage())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Airplane!", titles[0].Name)

	titles, total, err = s.Titles.List(ctx, storage.TitleQuery{Genre: "drama"}, firstPage())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, fx.title.ID, titles[0].ID)

	titles, _, err = s.Titles.List(ctx, storage.TitleQuery{Category: "films", Name: "GODFATHER"}, firstPage())
	require.NoError(t, err)
	assert.Len(t, titles, 1)

	year := 1980
	titles, _, err = s.Titles.List(ctx, storage.TitleQuery{Year: &year}, firstPage())
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Airplane!", titles[0].Name)

	missing := int64(9999)
	_, err = s.Titles.Insert(ctx, storage.TitleRecord{Name: "x", Year: 2000, CategoryID: &missing})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}
