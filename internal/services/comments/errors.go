package comments

import "reviewhub/proj/internal/domain/errs"

var (
	ErrReviewNotFound  = errs.NotFound("review not found")
	ErrCommentNotFound = errs.NotFound("comment not found")
)
