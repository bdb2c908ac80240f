package main

import (
	"net/http"

	"reviewhub/proj/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input auth.SignUpInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	user, err := app.Services.Auth.SignUp(r.Context(), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"username": user.Username, "email": user.Email}, "Confirmation code sent")
}

func (app *Application) getToken(w http.ResponseWriter, r *http.Request) {
	var input auth.TokenInput
	if !app.readJSONOrBadRequest(w, r, &input) {
		return
	}
	token, err := app.Services.Auth.GetToken(r.Context(), input)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
