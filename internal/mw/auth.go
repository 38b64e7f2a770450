package mw

import (
	"context"
	"net/http"

	"freightdash/internal/session"
)

type contextKey string

const SessionCtxKey contextKey = "session"

// Session decodes the request's session state and stores it in the context.
func Session(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := codec.FromRequest(r)
			ctx := context.WithValue(r.Context(), SessionCtxKey, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StateFrom returns the session stored by Session, or the anonymous state.
func StateFrom(ctx context.Context) session.State {
	st, ok := ctx.Value(SessionCtxKey).(session.State)
	if !ok {
		return session.Anonymous()
	}
	return st
}

// RequireAuth lets authenticated sessions through and hands everyone else to deny.
func RequireAuth(deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !StateFrom(r.Context()).Authenticated {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectToLogin is the deny handler for HTML pages.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Unauthorized is the deny handler for the JSON API.
func Unauthorized(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
