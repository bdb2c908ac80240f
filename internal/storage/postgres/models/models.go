package models

import (
	"errors"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
	"reviewhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

type Models struct {
	Users      *UserModel
	Categories *SlugModel[models.Category]
	Genres     *SlugModel[models.Genre]
	Titles     *TitleModel
	Reviews    *ReviewModel
	Comments   *CommentModel
}

func New(db *postgres.PostgresDB) *Models {
	return &Models{
		Users:      &UserModel{db.Conn},
		Categories: &SlugModel[models.Category]{DB: db.Conn, table: "categories"},
		Genres:     &SlugModel[models.Genre]{DB: db.Conn, table: "genres"},
		Titles:     &TitleModel{db.Conn},
		Reviews:    &ReviewModel{db.Conn},
		Comments:   &CommentModel{db.Conn},
	}
}

// mapErr translates driver errors into the storage error kinds.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return storage.ErrNotFound
	case postgres.IsErrCode(err, postgres.ErrConflictCode):
		return storage.ErrConflict
	case postgres.IsErrCode(err, postgres.ErrForeignKeyCode):
		return storage.ErrInvalidReference
	}
	return err
}
