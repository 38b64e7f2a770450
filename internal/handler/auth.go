package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"freightdash/internal/mw"
	"freightdash/internal/service"
	"freightdash/internal/session"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginPage struct {
	Email string
	Error string
}

const invalidCredentialsMsg = "Invalid email or password."

func LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mw.StateFrom(r.Context()).Authenticated {
			http.Redirect(w, r, "/orders", http.StatusSeeOther)
			return
		}
		renderPage(w, http.StatusOK, "login", loginPage{})
	}
}

func LoginFormHandler(auth session.Authenticator, codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		email := r.PostForm.Get("email")

		next, err := session.Login(mw.StateFrom(r.Context()), auth, email, r.PostForm.Get("password"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				renderPage(w, http.StatusUnauthorized, "login", loginPage{Email: email, Error: invalidCredentialsMsg})
			default:
				slog.Error("login failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if err := codec.Save(w, next); err != nil {
			slog.Error("session save failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		slog.Info("logged in", "account", next.AccountID, "tenant", next.Tenant)
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
	}
}

func LogoutHandler(codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := mw.StateFrom(r.Context())
		_ = codec.Save(w, session.Logout(current))
		if current.Authenticated {
			slog.Info("logged out", "account", current.AccountID)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// LoginHandler is the API login: the token comes back in the Authorization header.
func LoginHandler(auth session.Authenticator, codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		next, err := session.Login(session.Anonymous(), auth, req.Login, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				http.Error(w, "invalid login or password", http.StatusUnauthorized)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		token, err := codec.Issue(next)
		if err != nil {
			http.Error(w, "token generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}
}
