package memory

import (
	"context"
	"sort"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/storage"
)

// TermModel serves categories and genres.
type TermModel[T any] struct {
	s        *Store
	rows     map[int64]term
	build    func(term) T
	onDelete func(id int64)
}

func (m *TermModel[T]) bySlug(slug string) (term, bool) {
	for _, t := range m.rows {
		if t.slug == slug {
			return t, true
		}
	}
	return term{}, false
}

func (m *TermModel[T]) GetBySlug(_ context.Context, slug string) (*T, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	t, ok := m.bySlug(slug)
	if !ok {
		return nil, storage.ErrNotFound
	}
	item := m.build(t)
	return &item, nil
}

func (m *TermModel[T]) Insert(_ context.Context, name, slug string) (*T, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.bySlug(slug); ok {
		return nil, storage.ErrConflict
	}
	t := term{id: m.s.id(), name: name, slug: slug}
	m.rows[t.id] = t
	item := m.build(t)
	return &item, nil
}

func (m *TermModel[T]) List(_ context.Context, search string, f filters.Filters) ([]T, int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	matched := make([]term, 0)
	for _, t := range m.rows {
		if containsFold(t.name, search) {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].name != matched[j].name {
			return matched[i].name < matched[j].name
		}
		return matched[i].id < matched[j].id
	})
	page := filters.Paginate(matched, f)
	items := make([]T, 0, len(page))
	for _, t := range page {
		items = append(items, m.build(t))
	}
	return items, len(matched), nil
}

// Delete never removes titles: categories are unset and genre links dropped.
func (m *TermModel[T]) Delete(_ context.Context, slug string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.bySlug(slug)
	if !ok {
		return storage.ErrNotFound
	}
	delete(m.rows, t.id)
	m.onDelete(t.id)
	return nil
}
