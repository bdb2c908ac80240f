package models

import (
	"context"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const commentColumns = `c.id, c.review_id, u.username AS author, c.text, c.pub_date, c.author_id`

type CommentModel struct {
	DB *pgxpool.Pool
}

func (m *CommentModel) Get(ctx context.Context, reviewID, id int64) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT "+commentColumns+" FROM comments c JOIN users u ON u.id = c.author_id WHERE c.id = $1 AND c.review_id = $2",
		id, reviewID,
	)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		return nil, mapErr(err)
	}
	return &comment, nil
}

func (m *CommentModel) List(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER() AS count, `+commentColumns+`
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1
		ORDER BY c.pub_date ASC, c.id ASC
		LIMIT $2 OFFSET $3`,
		reviewID, f.Limit(), f.Offset(),
	)
	type row struct {
		Count int
		models.Comment
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, mapErr(err)
	}
	comments := make([]models.Comment, 0, len(outputRows))
	for _, r := range outputRows {
		comments = append(comments, r.Comment)
	}
	if len(outputRows) == 0 {
		return comments, 0, nil
	}
	return comments, outputRows[0].Count, nil
}

func (m *CommentModel) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH c AS (
			INSERT INTO comments (review_id, author_id, text) VALUES ($1, $2, $3) RETURNING *
		)
		SELECT `+commentColumns+` FROM c JOIN users u ON u.id = c.author_id`,
		reviewID, authorID, text,
	)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		return nil, mapErr(err)
	}
	return &comment, nil
}

func (m *CommentModel) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH c AS (
			UPDATE comments SET text = $1 WHERE id = $2 AND review_id = $3 RETURNING *
		)
		SELECT `+commentColumns+` FROM c JOIN users u ON u.id = c.author_id`,
		comment.Text, comment.ID, comment.ReviewID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		return nil, mapErr(err)
	}
	return &updated, nil
}

func (m *CommentModel) Delete(ctx context.Context, reviewID, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND review_id = $2", id, reviewID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
