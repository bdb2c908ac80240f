package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, name string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		app.Http.NotFound(w, r, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	if id < 1 {
		app.Http.NotFound(w, r, fmt.Sprintf("%s must be greater than zero", name))
		return 0, false
	}
	return id, true
}

// extractIDParams reads several numeric path params, stopping at the first bad one.
func (app *Application) extractIDParams(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, ok := app.extractIDParam(w, r, name)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func currentUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(CtxKeyUser).(*models.User)
	if !ok || user == nil {
		return models.AnonymousUser
	}
	return user
}

type pageQuery struct {
	Page     int `schema:"page"`
	PageSize int `schema:"page_size"`
}

func (q pageQuery) filters() filters.Filters {
	return filters.Filters{Page: q.Page, PageSize: q.PageSize}
}

type searchQuery struct {
	Search   string `schema:"search"`
	Page     int    `schema:"page"`
	PageSize int    `schema:"page_size"`
}

func (q searchQuery) filters() filters.Filters {
	return filters.Filters{Page: q.Page, PageSize: q.PageSize}
}

// readQuery decodes the query string into dst, answering 422 on bad values.
func (app *Application) readQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := app.queryDecoder.Decode(dst, r.URL.Query())
	if err == nil {
		return true
	}
	fieldErrs := make(map[string]string)
	var multi schema.MultiError
	if errors.As(err, &multi) {
		for field := range multi {
			fieldErrs[field] = "Invalid value"
		}
	} else {
		fieldErrs["query"] = err.Error()
	}
	app.Http.UnprocessableEntity(w, r, fieldErrs)
	return false
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readJSONOrBadRequest answers 400 itself and reports whether to go on.
func (app *Application) readJSONOrBadRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	return true
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
