package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"freightdash/internal/mw"
	"freightdash/internal/service"
	"freightdash/internal/session"
)

type Deps struct {
	Auth   session.Authenticator
	Orders *service.OrderService
	Codec  *session.Codec
	// Metrics serves /metrics; nil uses the default Prometheus registry.
	Metrics http.Handler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Instrument)
	r.Use(mw.Session(d.Codec))

	metricsHandler := d.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// HTML
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if mw.StateFrom(r.Context()).Authenticated {
			http.Redirect(w, r, "/orders", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	r.Get("/login", LoginPageHandler())
	r.Post("/login", LoginFormHandler(d.Auth, d.Codec))
	r.Post("/logout", LogoutHandler(d.Codec))

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(mw.RedirectToLogin))

		r.Get("/orders", OrdersPageHandler(d.Orders))
		r.Get("/charts/{kind}", ChartImageHandler(d.Orders))
	})

	// JSON API
	r.Route("/api/user", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Authorization"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Post("/login", LoginHandler(d.Auth, d.Codec))

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth(mw.Unauthorized))

			r.Get("/orders", ListOrdersHandler(d.Orders))
			r.Get("/charts/{kind}", ChartDataHandler(d.Orders))
		})
	})

	return r
}
