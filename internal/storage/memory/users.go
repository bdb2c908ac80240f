package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type UserModel struct {
	s *Store
}

func (m *UserModel) find(match func(models.User) bool) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, u := range m.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *UserModel) GetByID(_ context.Context, id int64) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.ID == id })
}

func (m *UserModel) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m *UserModel) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

// taken must be called with the lock held.
func (m *UserModel) taken(user *models.User) bool {
	for _, u := range m.s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return true
		}
	}
	return false
}

func (m *UserModel) Insert(_ context.Context, user *models.User) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	created := *user
	created.ID = 0
	if m.taken(&created) {
		return nil, storage.ErrConflict
	}
	if created.Role == "" {
		created.Role = models.RoleUser
	}
	created.ID = m.s.id()
	created.CreatedAt = m.s.timestamp()
	created.UpdatedAt = created.CreatedAt
	m.s.users[created.ID] = created
	return &created, nil
}

func (m *UserModel) List(_ context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	users := make([]models.User, 0)
	for _, u := range m.s.users {
		if containsFold(u.Username, search) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return filters.Paginate(users, f), len(users), nil
}

func (m *UserModel) Update(_ context.Context, user *models.User) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	current, ok := m.s.users[user.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if m.taken(user) {
		return nil, storage.ErrConflict
	}
	updated := *user
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = m.s.timestamp()
	if !updated.UpdatedAt.After(current.UpdatedAt) {
		updated.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
	}
	m.s.users[updated.ID] = updated
	return &updated, nil
}

// Delete removes the user together with their reviews and comments.
func (m *UserModel) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.s.users, id)
	for rid, r := range m.s.reviews {
		if r.AuthorID == id {
			m.s.deleteReview(rid)
		}
	}
	for cid, c := range m.s.comments {
		if c.AuthorID == id {
			delete(m.s.comments, cid)
		}
	}
	return nil
}
