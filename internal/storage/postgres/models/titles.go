package models

import (
	"context"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
	"reviewhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The rating is averaged on every read and is NULL for titles without reviews.
const titleSelect = `SELECT count(*) OVER() AS count, t.id, t.name, t.year, t.description,
	c.id, c.name, c.slug,
	COALESCE((
		SELECT json_agg(json_build_object('name', g.name, 'slug', g.slug) ORDER BY g.slug)
		FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = t.id
	), '[]'::json),
	(SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id)
FROM titles t
LEFT JOIN categories c ON c.id = t.category_id`

type TitleModel struct {
	DB *pgxpool.Pool
}

type titleRow struct {
	count int
	title models.Title
}

func scanTitle(row pgx.CollectableRow) (titleRow, error) {
	var (
		r                titleRow
		catID            *int64
		catName, catSlug *string
	)
	err := row.Scan(
		&r.count,
		&r.title.ID,
		&r.title.Name,
		&r.title.Year,
		&r.title.Description,
		&catID,
		&catName,
		&catSlug,
		&r.title.Genres,
		&r.title.Rating,
	)
	if err != nil {
		return r, err
	}
	if catID != nil {
		r.title.Category = &models.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}
	return r, nil
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	rows, _ := m.DB.Query(ctx, titleSelect+" WHERE t.id = $1", id)
	r, err := pgx.CollectOneRow(rows, scanTitle)
	if err != nil {
		return nil, mapErr(err)
	}
	return &r.title, nil
}

func (m *TitleModel) List(ctx context.Context, q storage.TitleQuery, f filters.Filters) ([]models.Title, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		titleSelect+`
		WHERE ($1 = '' OR t.name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR c.slug = $2)
		AND ($3 = '' OR EXISTS (
			SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $3
		))
		AND ($4::int IS NULL OR t.year = $4)
		ORDER BY t.name ASC, t.id ASC
		LIMIT $5 OFFSET $6`,
		q.Name, q.Category, q.Genre, q.Year, f.Limit(), f.Offset(),
	)
	outputRows, err := pgx.CollectRows(rows, scanTitle)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	titles := make([]models.Title, 0, len(outputRows))
	for _, r := range outputRows {
		titles = append(titles, r.title)
	}
	if len(outputRows) == 0 {
		return titles, 0, nil
	}
	return titles, outputRows[0].count, nil
}

func setGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM title_genres WHERE title_id = $1", titleID); err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(
		ctx,
		`INSERT INTO title_genres (title_id, genre_id)
		SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
		titleID, genreIDs,
	)
	return err
}

func (m *TitleModel) Insert(ctx context.Context, rec storage.TitleRecord) (*models.Title, error) {
	var id int64
	err := postgres.WithTx(ctx, m.DB, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
			rec.Name, rec.Year, rec.Description, rec.CategoryID,
		).Scan(&id)
		if err != nil {
			return err
		}
		return setGenres(ctx, tx, id, rec.GenreIDs)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Update(ctx context.Context, id int64, rec storage.TitleRecord) (*models.Title, error) {
	err := postgres.WithTx(ctx, m.DB, func(tx pgx.Tx) error {
		status, err := tx.Exec(
			ctx,
			"UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5",
			rec.Name, rec.Year, rec.Description, rec.CategoryID, id,
		)
		if err != nil {
			return err
		}
		if status.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		if rec.GenreIDs == nil {
			return nil
		}
		return setGenres(ctx, tx, id, rec.GenreIDs)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return m.Get(ctx, id)
}

// Delete removes the title; reviews and their comments go with it via ON DELETE CASCADE.
func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
