package memory

import (
	"context"
	"sort"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type TitleModel struct {
	s *Store
}

// build must be called with the lock held.
func (m *TitleModel) build(row titleRow) models.Title {
	t := models.Title{
		ID:          row.id,
		Name:        row.name,
		Year:        row.year,
		Description: row.description,
		Genres:      make([]models.Genre, 0, len(row.genreIDs)),
	}
	if row.categoryID != nil {
		if c, ok := m.s.categories[*row.categoryID]; ok {
			t.Category = &models.Category{ID: c.id, Name: c.name, Slug: c.slug}
		}
	}
	for _, id := range row.genreIDs {
		if g, ok := m.s.genres[id]; ok {
			t.Genres = append(t.Genres, models.Genre{ID: g.id, Name: g.name, Slug: g.slug})
		}
	}
	sort.Slice(t.Genres, func(i, j int) bool { return t.Genres[i].Slug < t.Genres[j].Slug })
	t.Rating = m.rating(row.id)
	return t
}

func (m *TitleModel) rating(titleID int64) *float64 {
	var sum, n int
	for _, r := range m.s.reviews {
		if r.TitleID == titleID {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

func (m *TitleModel) matches(row titleRow, q storage.TitleQuery) bool {
	if !containsFold(row.name, q.Name) {
		return false
	}
	if q.Year != nil && row.year != *q.Year {
		return false
	}
	if q.Category != "" {
		if row.categoryID == nil {
			return false
		}
		if c, ok := m.s.categories[*row.categoryID]; !ok || c.slug != q.Category {
			return false
		}
	}
	if q.Genre != "" {
		found := false
		for _, id := range row.genreIDs {
			if g, ok := m.s.genres[id]; ok && g.slug == q.Genre {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *TitleModel) Get(_ context.Context, id int64) (*models.Title, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	row, ok := m.s.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	t := m.build(row)
	return &t, nil
}

func (m *TitleModel) List(_ context.Context, q storage.TitleQuery, f filters.Filters) ([]models.Title, int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rows := make([]titleRow, 0)
	for _, row := range m.s.titles {
		if m.matches(row, q) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].name != rows[j].name {
			return rows[i].name < rows[j].name
		}
		return rows[i].id < rows[j].id
	})
	page := filters.Paginate(rows, f)
	titles := make([]models.Title, 0, len(page))
	for _, row := range page {
		titles = append(titles, m.build(row))
	}
	return titles, len(rows), nil
}

// checkRefs must be called with the lock held.
func (m *TitleModel) checkRefs(rec storage.TitleRecord) error {
	if rec.CategoryID != nil {
		if _, ok := m.s.categories[*rec.CategoryID]; !ok {
			return storage.ErrInvalidReference
		}
	}
	for _, id := range rec.GenreIDs {
		if _, ok := m.s.genres[id]; !ok {
			return storage.ErrInvalidReference
		}
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (m *TitleModel) Insert(_ context.Context, rec storage.TitleRecord) (*models.Title, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.checkRefs(rec); err != nil {
		return nil, err
	}
	row := titleRow{
		id:          m.s.id(),
		name:        rec.Name,
		year:        rec.Year,
		description: rec.Description,
		categoryID:  rec.CategoryID,
		genreIDs:    uniqueIDs(rec.GenreIDs),
	}
	m.s.titles[row.id] = row
	t := m.build(row)
	return &t, nil
}

func (m *TitleModel) Update(_ context.Context, id int64, rec storage.TitleRecord) (*models.Title, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	row, ok := m.s.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if err := m.checkRefs(rec); err != nil {
		return nil, err
	}
	row.name = rec.Name
	row.year = rec.Year
	row.description = rec.Description
	row.categoryID = rec.CategoryID
	if rec.GenreIDs != nil {
		row.genreIDs = uniqueIDs(rec.GenreIDs)
	}
	m.s.titles[id] = row
	t := m.build(row)
	return &t, nil
}

// Delete removes the title with its reviews and their comments.
func (m *TitleModel) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.titles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.s.titles, id)
	for rid, r := range m.s.reviews {
		if r.TitleID == id {
			m.s.deleteReview(rid)
		}
	}
	return nil
}
