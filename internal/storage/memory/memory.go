// Package memory is a process-local storage backend with the same semantics
// as the postgres models, cascades included. It backs tests and the
// "memory" storage mode.
package memory

import (
	"strings"
	"sync"
	"time"

	"reviewhub/proj/internal/domain/models"
)

type term struct {
	id   int64
	name string
	slug string
}

type titleRow struct {
	id          int64
	name        string
	year        int
	description string
	categoryID  *int64
	genreIDs    []int64
}

type Store struct {
	mu     sync.RWMutex
	nextID int64
	now    func() time.Time

	users      map[int64]models.User
	categories map[int64]term
	genres     map[int64]term
	titles     map[int64]titleRow
	reviews    map[int64]models.Review
	comments   map[int64]models.Comment

	Users      *UserModel
	Categories *TermModel[models.Category]
	Genres     *TermModel[models.Genre]
	Titles     *TitleModel
	Reviews    *ReviewModel
	Comments   *CommentModel
}

func New() *Store {
	s := &Store{
		now:        time.Now,
		users:      make(map[int64]models.User),
		categories: make(map[int64]term),
		genres:     make(map[int64]term),
		titles:     make(map[int64]titleRow),
		reviews:    make(map[int64]models.Review),
		comments:   make(map[int64]models.Comment),
	}
	s.Users = &UserModel{s}
	s.Categories = &TermModel[models.Category]{
		s:     s,
		rows:  s.categories,
		build: func(t term) models.Category { return models.Category{ID: t.id, Name: t.name, Slug: t.slug} },
		onDelete: func(id int64) {
			for tid, row := range s.titles {
				if row.categoryID != nil && *row.categoryID == id {
					row.categoryID = nil
					s.titles[tid] = row
				}
			}
		},
	}
	s.Genres = &TermModel[models.Genre]{
		s:     s,
		rows:  s.genres,
		build: func(t term) models.Genre { return models.Genre{ID: t.id, Name: t.name, Slug: t.slug} },
		onDelete: func(id int64) {
			for tid, row := range s.titles {
				row.genreIDs = removeID(row.genreIDs, id)
				s.titles[tid] = row
			}
		},
	}
	s.Titles = &TitleModel{s}
	s.Reviews = &ReviewModel{s}
	s.Comments = &CommentModel{s}
	return s
}

// id must be called with the write lock held.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// timestamp matches the microsecond precision of postgres timestamps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// deleteReview must be called with the write lock held.
func (s *Store) deleteReview(id int64) {
	delete(s.reviews, id)
	for cid, c := range s.comments {
		if c.ReviewID == id {
			delete(s.comments, cid)
		}
	}
}
