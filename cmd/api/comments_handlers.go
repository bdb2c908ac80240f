package main

import (
	"net/http"

	"reviewhub/proj/internal/services/comments"
)

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id")
	if !ok {
		return
	}
	var query pageQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	list, metadata, err := app.Services.Comments.List(r.Context(), ids[0], ids[1], query.filters())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"items": list, "metadata": metadata}, "")
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id")
	if !ok {
		return
	}
	var input comments.Input
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	comment, err := app.Services.Comments.Create(r.Context(), currentUser(r), ids[0], ids[1], input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}
	comment, err := app.Services.Comments.Get(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}
	var input comments.Input
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	comment, err := app.Services.Comments.Update(r.Context(), currentUser(r), ids[0], ids[1], ids[2], input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	ids, ok := app.extractIDParams(w, r, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}
	if err := app.Services.Comments.Delete(r.Context(), currentUser(r), ids[0], ids[1], ids[2]); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
