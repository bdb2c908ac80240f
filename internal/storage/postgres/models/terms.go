package models

import (
	"context"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SlugModel serves the slug-keyed lookup tables (categories and genres).
type SlugModel[T any] struct {
	DB    *pgxpool.Pool
	table string
}

func (m *SlugModel[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name, slug FROM "+m.table+" WHERE slug = $1", slug)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (m *SlugModel[T]) Insert(ctx context.Context, name, slug string) (*T, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO "+m.table+" (name, slug) VALUES ($1, $2) RETURNING id, name, slug",
		name, slug,
	)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (m *SlugModel[T]) List(ctx context.Context, search string, f filters.Filters) ([]T, int, error) {
	var total int
	err := m.DB.QueryRow(
		ctx,
		"SELECT count(*) FROM "+m.table+" WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')",
		search,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	rows, _ := m.DB.Query(
		ctx,
		`SELECT id, name, slug FROM `+m.table+`
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC, id ASC
		LIMIT $2 OFFSET $3`,
		search, f.Limit(), f.Offset(),
	)
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, 0, mapErr(err)
	}
	return items, total, nil
}

func (m *SlugModel[T]) Delete(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM "+m.table+" WHERE slug = $1", slug)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
