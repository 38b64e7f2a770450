package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"freightdash/internal/model"
	"freightdash/internal/report"
)

var ErrUnknownChart = errors.New("unknown chart")

// OrderStore provides the full, normalized order table.
type OrderStore interface {
	Orders(ctx context.Context) ([]model.OrderRecord, error)
}

type OrderService struct {
	store OrderStore
}

func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{store: store}
}

// OrdersView is one tenant's table after status filtering and formatting.
// NoOrders is set when the tenant has no orders at all, whatever the filter.
type OrdersView struct {
	Tenant   string             `json:"tenant"`
	Status   string             `json:"status"`
	Statuses []string           `json:"statuses"`
	Columns  []string           `json:"columns"`
	Rows     []model.DisplayRow `json:"rows"`
	NoOrders bool               `json:"-"`
}

func (s *OrderService) View(ctx context.Context, tenant, status string) (*OrdersView, error) {
	all, err := s.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	view := &OrdersView{
		Tenant:   tenant,
		Status:   status,
		Statuses: []string{report.AllStatuses},
		Columns:  model.Columns,
		Rows:     []model.DisplayRow{},
	}

	scoped := report.Scope(all, tenant)
	if len(scoped) == 0 {
		view.NoOrders = true
		return view, nil
	}

	sel := report.NewStatusSelector(scoped)
	for label, raws := range sel.Collisions() {
		slog.Warn("status values share a label", "tenant", tenant, "label", label, "raw", raws, "selected", raws[0])
	}

	view.Statuses = sel.Options()
	view.Rows = report.Format(sel.Filter(scoped, status))
	return view, nil
}

// Chart aggregates the rows of View for the chart named by kind.
func (s *OrderService) Chart(ctx context.Context, tenant, status, kind string) (report.ChartSpec, []report.Count, error) {
	spec, ok := report.LookupChart(kind)
	if !ok {
		return report.ChartSpec{}, nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}

	view, err := s.View(ctx, tenant, status)
	if err != nil {
		return spec, nil, err
	}

	counts, err := spec.Aggregate(view.Rows)
	if err != nil {
		return spec, nil, fmt.Errorf("aggregate %s: %w", kind, err)
	}
	return spec, counts, nil
}
