package main

import (
	"errors"
	"net/http"

	"reviewhub/proj/internal/domain/errs"
)

const dispatchFailedMsg = "Could not send the confirmation code, please try again later"

// handleServiceError translates service errors into HTTP responses.
func (app *Application) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if vErr, ok := errs.AsValidation(err); ok {
		app.Http.UnprocessableEntity(w, r, vErr.Errors)
		return
	}
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		app.Http.Unauthorized(w, r, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		app.Http.Forbidden(w, r, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, errs.ErrConflict):
		app.Http.Conflict(w, r, err.Error())
	case errors.Is(err, errs.ErrDispatch):
		app.Http.setupLogPerReq(r).Error("dispatch failed", "errMsg", err.Error())
		app.Http.ServiceUnavailable(w, r, dispatchFailedMsg)
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
