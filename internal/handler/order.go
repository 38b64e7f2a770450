package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"freightdash/internal/mw"
	"freightdash/internal/report"
	"freightdash/internal/service"
)

const loadFailedMsg = "Unable to load orders right now. Please try again later."

type ordersPage struct {
	Account    string
	View       *service.OrdersView
	Charts     []report.ChartSpec
	Chart      string
	ChartTitle string
	ChartURL   string
}

// statusParam reads the status filter. A missing parameter means all
// statuses; an empty one selects orders whose status is blank.
func statusParam(r *http.Request) string {
	q := r.URL.Query()
	if !q.Has("status") {
		return report.AllStatuses
	}
	return q.Get("status")
}

func OrdersPageHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := mw.StateFrom(r.Context())
		status := statusParam(r)

		view, err := orderSvc.View(r.Context(), st.Tenant, status)
		if err != nil {
			slog.Error("orders view failed", "tenant", st.Tenant, "error", err)
			renderPage(w, http.StatusInternalServerError, "error", loadFailedMsg)
			return
		}

		page := ordersPage{
			Account: st.AccountID,
			View:    view,
			Charts:  report.Charts,
			Chart:   string(report.ChartNone),
		}
		if spec, ok := report.LookupChart(r.URL.Query().Get("chart")); ok {
			page.Chart = string(spec.Kind)
			page.ChartTitle = spec.Title
			page.ChartURL = "/charts/" + string(spec.Kind) + "?" + url.Values{"status": {status}}.Encode()
		}

		renderPage(w, http.StatusOK, "orders", page)
	}
}

func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := mw.StateFrom(r.Context())

		view, err := orderSvc.View(r.Context(), st.Tenant, statusParam(r))
		if err != nil {
			slog.Error("orders view failed", "tenant", st.Tenant, "error", err)
			http.Error(w, "unable to load orders", http.StatusInternalServerError)
			return
		}

		if view.NoOrders {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
