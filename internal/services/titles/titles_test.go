package titles

import (
	"context"
	"testing"
	"time"

	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/logger"
	"reviewhub/proj/internal/storage"
	"reviewhub/proj/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*TitleService, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	for _, c := range [][2]string{{"Films", "films"}, {"Books", "books"}} {
		_, err := store.Categories.Insert(ctx, c[0], c[1])
		require.NoError(t, err)
	}
	for _, g := range [][2]string{{"Drama", "drama"}, {"Crime", "crime"}} {
		_, err := store.Genres.Insert(ctx, g[0], g[1])
		require.NoError(t, err)
	}
	return New(logger.Discard(), store.Titles, store.Categories, store.Genres), store
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	title, err := s.Create(ctx, admin, CreateInput{
		Name:     "The Godfather",
		Year:     1972,
		Category: "films",
		Genres:   []string{"drama", "crime"},
	})
	require.NoError(t, err)
	require.NotNil(t, title.Category)
	assert.Equal(t, "films", title.Category.Slug)
	require.Len(t, title.Genres, 2)
	assert.Equal(t, "crime", title.Genres[0].Slug)
	assert.Nil(t, title.Rating)

	t.Run("non admin", func(t *testing.T) {
		moderator := &models.User{ID: 2, Role: models.RoleModerator}
		_, err := s.Create(ctx, moderator, CreateInput{Name: "x", Year: 2000, Genres: []string{"drama"}})
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("future year", func(t *testing.T) {
		_, err := s.Create(ctx, admin, CreateInput{Name: "x", Year: time.Now().Year() + 1, Genres: []string{"drama"}})
		vErr, ok := errs.AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, vErr.Errors, "year")
	})

	t.Run("current year is fine", func(t *testing.T) {
		_, err := s.Create(ctx, admin, CreateInput{Name: "Now", Year: time.Now().Year(), Genres: []string{"drama"}})
		assert.NoError(t, err)
	})

	t.Run("no genres", func(t *testing.T) {
		_, err := s.Create(ctx, admin, CreateInput{Name: "x", Year: 2000})
		vErr, ok := errs.AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, vErr.Errors, "genre")
	})

	t.Run("unknown slugs", func(t *testing.T) {
		_, err := s.Create(ctx, admin, CreateInput{Name: "x", Year: 2000, Category: "games", Genres: []string{"horror"}})
		vErr, ok := errs.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, msgUnknownCategory, vErr.Errors["category"])
		assert.Equal(t, msgUnknownGenre, vErr.Errors["genre"])
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)
	title, err := s.Create(ctx, admin, CreateInput{Name: "Godfather", Year: 1972, Category: "films", Genres: []string{"drama"}})
	require.NoError(t, err)

	updated, err := s.Update(ctx, admin, title.ID, UpdateInput{Name: ptr("The Godfather")})
	require.NoError(t, err)
	assert.Equal(t, "The Godfather", updated.Name)
	assert.Equal(t, 1972, updated.Year)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "films", updated.Category.Slug)
	assert.Len(t, updated.Genres, 1)

	updated, err = s.Update(ctx, admin, title.ID, UpdateInput{Category: ptr("books"), Genres: []string{"crime"}})
	require.NoError(t, err)
	assert.Equal(t, "books", updated.Category.Slug)
	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "crime", updated.Genres[0].Slug)

	_, err = s.Update(ctx, admin, title.ID+100, UpdateInput{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrTitleNotFound)

	_, err = s.Update(ctx, &models.User{ID: 5, Role: models.RoleUser}, title.ID, UpdateInput{Name: ptr("x")})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestListAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)
	godfather, err := s.Create(ctx, admin, CreateInput{Name: "The Godfather", Year: 1972, Category: "films", Genres: []string{"drama", "crime"}})
	require.NoError(t, err)
	_, err = s.Create(ctx, admin, CreateInput{Name: "Anna Karenina", Year: 1878, Category: "books", Genres: []string{"drama"}})
	require.NoError(t, err)

	all, meta, err := s.List(ctx, storage.TitleQuery{}, filters.Filters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Anna Karenina", all[0].Name)
	assert.Equal(t, 2, meta.TotalRecords)

	crime, _, err := s.List(ctx, storage.TitleQuery{Genre: "crime"}, filters.Filters{})
	require.NoError(t, err)
	require.Len(t, crime, 1)
	assert.Equal(t, godfather.ID, crime[0].ID)

	books, _, err := s.List(ctx, storage.TitleQuery{Category: "books", Year: ptr(1878)}, filters.Filters{})
	require.NoError(t, err)
	assert.Len(t, books, 1)

	got, err := s.Get(ctx, godfather.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Godfather", got.Name)

	_, err = s.Get(ctx, 9999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s, store := setup(t)
	title, err := s.Create(ctx, admin, CreateInput{Name: "Godfather", Year: 1972, Category: "films", Genres: []string{"drama"}})
	require.NoError(t, err)
	author, err := store.Users.Insert(ctx, &models.User{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
	review, err := store.Reviews.Insert(ctx, title.ID, author.ID, "great", 9)
	require.NoError(t, err)
	comment, err := store.Comments.Insert(ctx, review.ID, author.ID, "indeed")
	require.NoError(t, err)

	require.NoError(t, store.Categories.Delete(ctx, "films"))
	got, err := s.Get(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)

	assert.ErrorIs(t, s.Delete(ctx, models.AnonymousUser, title.ID), errs.ErrUnauthorized)
	require.NoError(t, s.Delete(ctx, admin, title.ID))

	_, err = store.Reviews.Get(ctx, title.ID, review.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Comments.Get(ctx, review.ID, comment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, admin, title.ID), ErrTitleNotFound)
}
