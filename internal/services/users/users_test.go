package users

import (
	"context"
	"testing"

	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/logger"
	"reviewhub/proj/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*UserService, *models.User, *models.User) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	s := New(logger.Discard(), store.Users)
	admin, err := store.Users.Insert(ctx, &models.User{Username: "admin", Email: "admin@x.com", Role: models.RoleAdmin, IsActive: true})
	require.NoError(t, err)
	alice, err := store.Users.Insert(ctx, &models.User{Username: "alice", Email: "alice@x.com", IsActive: true})
	require.NoError(t, err)
	return s, admin, alice
}

func TestAdminOnly(t *testing.T) {
	ctx := context.Background()
	s, _, alice := setup(t)
	moderator := &models.User{ID: 99, Username: "mod", Role: models.RoleModerator}

	_, _, err := s.List(ctx, alice, "", filters.Filters{})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, _, err = s.List(ctx, models.AnonymousUser, "", filters.Filters{})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = s.Get(ctx, moderator, "alice")
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.ErrorIs(t, s.Delete(ctx, alice, "admin"), errs.ErrForbidden)
}

func TestAdminManagesUsers(t *testing.T) {
	ctx := context.Background()
	s, admin, _ := setup(t)

	created, err := s.Create(ctx, admin, CreateInput{Username: "bob", Email: "bob@x.com", Role: models.RoleModerator})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, created.Role)

	_, err = s.Create(ctx, admin, CreateInput{Username: "bob", Email: "bob2@x.com"})
	_, ok := errs.AsValidation(err)
	assert.True(t, ok)

	_, err = s.Create(ctx, admin, CreateInput{Username: "me", Email: "me@x.com"})
	vErr, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "username")

	_, err = s.Create(ctx, admin, CreateInput{Username: "carol", Email: "c@x.com", Role: "owner"})
	vErr, ok = errs.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "role")

	updated, err := s.Update(ctx, admin, "bob", UpdateInput{Role: ptr(models.RoleAdmin), Bio: ptr("hi")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "hi", updated.Bio)
	assert.Equal(t, "bob@x.com", updated.Email)

	list, meta, err := s.List(ctx, admin, "", filters.Filters{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 3, meta.TotalRecords)
	assert.Equal(t, 2, meta.LastPage)

	require.NoError(t, s.Delete(ctx, admin, "bob"))
	_, err = s.Get(ctx, admin, "bob")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.Delete(ctx, admin, "bob"), errs.ErrNotFound)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	s, _, alice := setup(t)

	me, err := s.GetMe(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = s.GetMe(ctx, models.AnonymousUser)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	updated, err := s.UpdateMe(ctx, alice, ProfileInput{FirstName: ptr("Alice"), Bio: ptr("reader")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "reader", updated.Bio)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, "alice", updated.Username)

	admin := models.RoleAdmin
	updated, err = s.UpdateMe(ctx, alice, ProfileInput{
		Bio:      ptr("critic"),
		Username: ptr("mallory"),
		Email:    ptr("m@x.com"),
		Role:     &admin,
	})
	require.NoError(t, err)
	assert.Equal(t, "critic", updated.Bio)
	assert.Equal(t, "alice", updated.Username)
	assert.NotEqual(t, "m@x.com", updated.Email)
	assert.Equal(t, models.RoleUser, updated.Role)
}

func TestCreateSuperuser(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setup(t)

	root, err := s.CreateSuperuser(ctx, SuperuserInput{Username: "root", Email: "root@x.com", Password: "s3cret-password"})
	require.NoError(t, err)
	assert.True(t, root.IsAdmin())
	assert.True(t, root.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword(root.PasswordHash, []byte("s3cret-password")))

	_, err = s.CreateSuperuser(ctx, SuperuserInput{Username: "root2", Email: "r2@x.com", Password: "short"})
	vErr, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "password")
}
