package main

import (
	"net/http"

	"reviewhub/proj/internal/services/catalog"

	"github.com/go-chi/chi/v5"
)

func (app *Application) listCategories(w http.ResponseWriter, r *http.Request) {
	var query searchQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	items, metadata, err := app.Services.Catalog.ListCategories(r.Context(), query.Search, query.filters())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"items": items, "metadata": metadata}, "")
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	var input catalog.CreateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	category, err := app.Services.Catalog.CreateCategory(r.Context(), currentUser(r), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"category": category}, "")
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := app.Services.Catalog.DeleteCategory(r.Context(), currentUser(r), chi.URLParam(r, "slug")); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	var query searchQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	items, metadata, err := app.Services.Catalog.ListGenres(r.Context(), query.Search, query.filters())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"items": items, "metadata": metadata}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var input catalog.CreateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	genre, err := app.Services.Catalog.CreateGenre(r.Context(), currentUser(r), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := app.Services.Catalog.DeleteGenre(r.Context(), currentUser(r), chi.URLParam(r, "slug")); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
