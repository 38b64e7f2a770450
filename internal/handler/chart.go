package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"freightdash/internal/chart"
	"freightdash/internal/mw"
	"freightdash/internal/report"
	"freightdash/internal/service"
)

type chartResponse struct {
	Kind   report.ChartKind `json:"kind"`
	Title  string           `json:"title"`
	Counts []report.Count   `json:"counts"`
}

func ChartImageHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := mw.StateFrom(r.Context())

		spec, counts, err := orderSvc.Chart(r.Context(), st.Tenant, statusParam(r), chi.URLParam(r, "kind"))
		if err != nil {
			writeChartError(w, st.Tenant, err)
			return
		}

		var buf bytes.Buffer
		if err := chart.RenderBar(&buf, spec.Title, counts); err != nil {
			if errors.Is(err, chart.ErrNoData) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			slog.Error("chart render failed", "chart", spec.Kind, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}

func ChartDataHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := mw.StateFrom(r.Context())

		spec, counts, err := orderSvc.Chart(r.Context(), st.Tenant, statusParam(r), chi.URLParam(r, "kind"))
		if err != nil {
			writeChartError(w, st.Tenant, err)
			return
		}

		if counts == nil {
			counts = []report.Count{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(chartResponse{Kind: spec.Kind, Title: spec.Title, Counts: counts}); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

func writeChartError(w http.ResponseWriter, tenant string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownChart):
		http.Error(w, "unknown chart", http.StatusNotFound)
	default:
		slog.Error("chart data failed", "tenant", tenant, "error", err)
		http.Error(w, "unable to load orders", http.StatusInternalServerError)
	}
}
