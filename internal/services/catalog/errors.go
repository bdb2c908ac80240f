package catalog

import "reviewhub/proj/internal/domain/errs"

var (
	ErrCategoryNotFound = errs.NotFound("category not found")
	ErrGenreNotFound    = errs.NotFound("genre not found")
)

const msgSlugTaken = "An entry with this slug already exists"
