package main

import (
	"net/http"

	"reviewhub/proj/internal/services/reviews"
)

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var query pageQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	list, metadata, err := app.Services.Reviews.List(r.Context(), titleID, query.filters())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"items": list, "metadata": metadata}, "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var input reviews.CreateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	review, err := app.Services.Reviews.Create(r.Context(), currentUser(r), titleID, input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id")
	if !ok {
		return
	}
	review, err := app.Services.Reviews.Get(r.Context(), ids[0], ids[1])
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id")
	if !ok {
		return
	}
	var input reviews.UpdateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	review, err := app.Services.Reviews.Update(r.Context(), currentUser(r), ids[0], ids[1], input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id")
	if !ok {
		return
	}
	if err := app.Services.Reviews.Delete(r.Context(), currentUser(r), ids[0], ids[1]); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
