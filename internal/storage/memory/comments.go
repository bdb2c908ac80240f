package memory

import (
	"context"
	"sort"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type CommentModel struct {
	s *Store
}

func (m *CommentModel) withAuthor(c models.Comment) models.Comment {
	c.Author = m.s.users[c.AuthorID].Username
	return c
}

func (m *CommentModel) Get(_ context.Context, reviewID, id int64) (*models.Comment, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	c, ok := m.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, storage.ErrNotFound
	}
	c = m.withAuthor(c)
	return &c, nil
}

func (m *CommentModel) List(_ context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	comments := make([]models.Comment, 0)
	for _, c := range m.s.comments {
		if c.ReviewID == reviewID {
			comments = append(comments, m.withAuthor(c))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].PubDate.Equal(comments[j].PubDate) {
			return comments[i].PubDate.Before(comments[j].PubDate)
		}
		return comments[i].ID < comments[j].ID
	})
	return filters.Paginate(comments, f), len(comments), nil
}

func (m *CommentModel) Insert(_ context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.reviews[reviewID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	if _, ok := m.s.users[authorID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	c := models.Comment{
		ID:       m.s.id(),
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     text,
		PubDate:  m.s.timestamp(),
	}
	m.s.comments[c.ID] = c
	c = m.withAuthor(c)
	return &c, nil
}

func (m *CommentModel) Update(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.comments[comment.ID]
	if !ok || c.ReviewID != comment.ReviewID {
		return nil, storage.ErrNotFound
	}
	c.Text = comment.Text
	m.s.comments[c.ID] = c
	c = m.withAuthor(c)
	return &c, nil
}

func (m *CommentModel) Delete(_ context.Context, reviewID, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return storage.ErrNotFound
	}
	delete(m.s.comments, id)
	return nil
}
