package services

import (
	"log/slog"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/services/auth"
	"reviewhub/proj/internal/services/catalog"
	"reviewhub/proj/internal/services/comments"
	"reviewhub/proj/internal/services/reviews"
	"reviewhub/proj/internal/services/titles"
	"reviewhub/proj/internal/services/users"
)

// UserStorage is the union of what auth and users need from the user table.
type UserStorage interface {
	auth.UserStorage
	users.UserStorage
}

// Storage is satisfied field by field by both the postgres models and the
// in-memory store.
type Storage struct {
	Users      UserStorage
	Categories CategoryStorage
	Genres     GenreStorage
	Titles     titles.TitleStorage
	Reviews    reviews.ReviewStorage
	Comments   comments.CommentStorage
}

type CategoryStorage interface {
	catalog.SlugStorage[models.Category]
	titles.CategoryLookup
}

type GenreStorage interface {
	catalog.SlugStorage[models.Genre]
	titles.GenreLookup
}

type Services struct {
	Auth     *auth.AuthService
	Users    *users.UserService
	Catalog  *catalog.CatalogService
	Titles   *titles.TitleService
	Reviews  *reviews.ReviewService
	Comments *comments.CommentService
}

func New(log *slog.Logger, cfg *config.Config, st Storage, mailer auth.MailProvider) *Services {
	return &Services{
		Auth:     auth.New(log, st.Users, mailer, cfg.AppSecret, cfg.Tokens.AccessTTL),
		Users:    users.New(log, st.Users),
		Catalog:  catalog.New(log, st.Categories, st.Genres),
		Titles:   titles.New(log, st.Titles, st.Categories, st.Genres),
		Reviews:  reviews.New(log, st.Reviews, st.Titles),
		Comments: comments.New(log, st.Comments, st.Reviews),
	}
}
