// cmd/api/users.go
// This file contains the handlers for registering users and issuing
// access tokens.
package main

import (
	"net/http"
	"strings"

	"github.com/aoideee/book-catalog/internal/auth"
	"github.com/aoideee/book-catalog/internal/validator"
)

// credentialsInput is the body of both registration and login requests.
type credentialsInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// registerUserHandler handles POST /v1/users.
// The password is stored as a bcrypt hash and never echoed back.
func (app *applicationDependencies) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.models.Users.Insert(r.Context(), input.Username, input.Password)
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	app.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loginHandler handles POST /v1/users/login.
// It accepts either a JSON body or an application/x-www-form-urlencoded form
// and responds with {"access_token": ..., "token_type": "bearer"}.
func (app *applicationDependencies) loginHandler(w http.ResponseWriter, r *http.Request) {
	input, err := app.readCredentials(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if v.Struct(input); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.models.Users.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		app.dataErrorResponse(w, r, err)
		return
	}

	token, err := app.tokens.Issue(user.Username)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"access_token": token, "token_type": auth.TokenType}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readCredentials reads username and password from a form post or a JSON body.
func (app *applicationDependencies) readCredentials(w http.ResponseWriter, r *http.Request) (credentialsInput, error) {
	var input credentialsInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return input, err
		}
		input.Username = r.PostForm.Get("username")
		input.Password = r.PostForm.Get("password")
		return input, nil
	}

	err := app.readJSON(w, r, &input)
	return input, err
}
