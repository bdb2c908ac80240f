package reviews

import "reviewhub/proj/internal/domain/errs"

var (
	ErrTitleNotFound       = errs.NotFound("title not found")
	ErrReviewNotFound      = errs.NotFound("review not found")
	ErrReviewAlreadyExists = errs.Conflict("you have already reviewed this title")
)
