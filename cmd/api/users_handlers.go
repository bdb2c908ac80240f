package main

import (
	"net/http"

	"reviewhub/proj/internal/services/users"

	"github.com/go-chi/chi/v5"
)

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	var query searchQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	list, metadata, err := app.Services.Users.List(r.Context(), currentUser(r), query.Search, query.filters())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"items": list, "metadata": metadata}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var input users.CreateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	user, err := app.Services.Users.Create(r.Context(), currentUser(r), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.Services.Users.Get(r.Context(), currentUser(r), chi.URLParam(r, "username"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	var input users.UpdateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	user, err := app.Services.Users.Update(r.Context(), currentUser(r), chi.URLParam(r, "username"), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := app.Services.Users.Delete(r.Context(), currentUser(r), chi.URLParam(r, "username")); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) getMe(w http.ResponseWriter, r *http.Request) {
	user, err := app.Services.Users.GetMe(r.Context(), currentUser(r))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateMe(w http.ResponseWriter, r *http.Request) {
	var input users.ProfileInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	user, err := app.Services.Users.UpdateMe(r.Context(), currentUser(r), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}
