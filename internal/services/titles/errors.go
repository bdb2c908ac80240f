package titles

import "reviewhub/proj/internal/domain/errs"

var ErrTitleNotFound = errs.NotFound("title not found")

const (
	msgUnknownCategory = "Category with this slug does not exist"
	msgUnknownGenre    = "Genre with this slug does not exist"
)
