package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64      `json:"-" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash []byte     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Bio          string     `json:"bio" db:"bio"`
	Role         Role       `json:"role" db:"role"`
	IsSuperuser  bool       `json:"-" db:"is_superuser"`
	IsActive     bool       `json:"-" db:"is_active"`
	LastLogin    *time.Time `json:"-" db:"last_login"`
	CreatedAt    time.Time  `json:"-" db:"created_at"`
	UpdatedAt    time.Time  `json:"-" db:"updated_at"`
}

// AnonymousUser is put into the request context when no bearer token was sent.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser
}

// IsAdmin treats superusers as admins regardless of their role.
func (u *User) IsAdmin() bool {
	if u.IsAnonymous() {
		return false
	}
	return u.Role == RoleAdmin || u.IsSuperuser
}

func (u *User) IsModerator() bool {
	if u.IsAnonymous() {
		return false
	}
	return u.Role == RoleModerator
}

type Category struct {
	ID   int64  `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type Genre struct {
	ID   int64  `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
	// Rating is the average review score, nil while the title has no reviews.
	Rating *float64 `json:"rating"`
}

type Review struct {
	ID      int64     `json:"id" db:"id"`
	TitleID int64     `json:"title_id" db:"title_id"`
	Author  string    `json:"author" db:"author"`
	Text    string    `json:"text" db:"text"`
	Score   int       `json:"score" db:"score"`
	PubDate time.Time `json:"pub_date" db:"pub_date"`

	AuthorID int64 `json:"-" db:"author_id"`
}

type Comment struct {
	ID       int64     `json:"id" db:"id"`
	ReviewID int64     `json:"review_id" db:"review_id"`
	Author   string    `json:"author" db:"author"`
	Text     string    `json:"text" db:"text"`
	PubDate  time.Time `json:"pub_date" db:"pub_date"`
	AuthorID int64     `json:"-" db:"author_id"`
}

type AuthToken struct {
	Token string `json:"token"`
}
