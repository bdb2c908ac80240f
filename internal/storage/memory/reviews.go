package memory

import (
	"context"
	"sort"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type ReviewModel struct {
	s *Store
}

// withAuthor must be called with the lock held.
func (m *ReviewModel) withAuthor(r models.Review) models.Review {
	r.Author = m.s.users[r.AuthorID].Username
	return r
}

func (m *ReviewModel) Get(_ context.Context, titleID, id int64) (*models.Review, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	r, ok := m.s.reviews[id]
	if !ok || r.TitleID != titleID {
		return nil, storage.ErrNotFound
	}
	r = m.withAuthor(r)
	return &r, nil
}

func (m *ReviewModel) List(_ context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	reviews := make([]models.Review, 0)
	for _, r := range m.s.reviews {
		if r.TitleID == titleID {
			reviews = append(reviews, m.withAuthor(r))
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].PubDate.Equal(reviews[j].PubDate) {
			return reviews[i].PubDate.After(reviews[j].PubDate)
		}
		return reviews[i].ID > reviews[j].ID
	})
	return filters.Paginate(reviews, f), len(reviews), nil
}

// Insert checks the title and the author's previous review under one lock,
// so concurrent duplicates cannot both succeed.
func (m *ReviewModel) Insert(_ context.Context, titleID, authorID int64, text string, score int) (*models.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.titles[titleID]; !ok {
		return nil, storage.ErrNotFound
	}
	if _, ok := m.s.users[authorID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	for _, r := range m.s.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return nil, storage.ErrConflict
		}
	}
	r := models.Review{
		ID:       m.s.id(),
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    score,
		PubDate:  m.s.timestamp(),
	}
	m.s.reviews[r.ID] = r
	r = m.withAuthor(r)
	return &r, nil
}

func (m *ReviewModel) Update(_ context.Context, review *models.Review) (*models.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reviews[review.ID]
	if !ok || r.TitleID != review.TitleID {
		return nil, storage.ErrNotFound
	}
	r.Text = review.Text
	r.Score = review.Score
	m.s.reviews[r.ID] = r
	r = m.withAuthor(r)
	return &r, nil
}

func (m *ReviewModel) Delete(_ context.Context, titleID, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reviews[id]
	if !ok || r.TitleID != titleID {
		return storage.ErrNotFound
	}
	m.s.deleteReview(id)
	return nil
}
