package users

import "reviewhub/proj/internal/domain/errs"

var ErrUserNotFound = errs.NotFound("user not found")

const msgUserExists = "A user with that username or email already exists"
