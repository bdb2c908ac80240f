package main

import (
	"net/http"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/services/titles"
	"reviewhub/proj/internal/storage"
)

type titlesQuery struct {
	Name     string `schema:"name"`
	Category string `schema:"category"`
	Genre    string `schema:"genre"`
	Year     *int   `schema:"year"`
	Page     int    `schema:"page"`
	PageSize int    `schema:"page_size"`
}

func (q titlesQuery) filters() filters.Filters {
	return filters.Filters{Page: q.Page, PageSize: q.PageSize}
}

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	var query titlesQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	list, metadata, err := app.Services.Titles.List(r.Context(), storage.TitleQuery{
		Name:     query.Name,
		Category: query.Category,
		Genre:    query.Genre,
		Year:     query.Year,
	}, query.filters())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"items": list, "metadata": metadata}, "")
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var input titles.CreateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	title, err := app.Services.Titles.Create(r.Context(), currentUser(r), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	title, err := app.Services.Titles.Get(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var input titles.UpdateInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	title, err := app.Services.Titles.Update(r.Context(), currentUser(r), id, input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	if err := app.Services.Titles.Delete(r.Context(), currentUser(r), id); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
