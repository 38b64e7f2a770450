package report

import (
	"errors"
	"fmt"
	"sort"

	"freightdash/internal/model"
)

var ErrUnknownColumn = errors.New("unknown column")

type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopN counts the values of column over rows, most frequent first. Ties keep
// the order in which values were first seen. n <= 0 returns every value.
func TopN(rows []model.DisplayRow, column string, n int) ([]Count, error) {
	col := -1
	for i, c := range model.Columns {
		if c == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	pos := make(map[string]int)
	var counts []Count
	for _, row := range rows {
		v := row.Cells()[col]
		if i, ok := pos[v]; ok {
			counts[i].Count++
			continue
		}
		pos[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}

type ChartKind string

const (
	ChartNone     ChartKind = "none"
	ChartDelivery ChartKind = "delivery"
	ChartPostal   ChartKind = "postal"
	ChartStatus   ChartKind = "status"
)

type ChartSpec struct {
	Kind   ChartKind
	Title  string
	Column string
	Limit  int
}

// Charts are the aggregate views offered next to the orders table.
var Charts = []ChartSpec{
	{Kind: ChartDelivery, Title: "Top Delivery Companies", Column: "Delivery", Limit: 10},
	{Kind: ChartPostal, Title: "Top Postal Codes", Column: "Postal Code", Limit: 10},
	{Kind: ChartStatus, Title: "Shipments by Status", Column: "Status", Limit: 0},
}

func LookupChart(kind string) (ChartSpec, bool) {
	for _, c := range Charts {
		if string(c.Kind) == kind {
			return c, true
		}
	}
	return ChartSpec{}, false
}

func (c ChartSpec) Aggregate(rows []model.DisplayRow) ([]Count, error) {
	return TopN(rows, c.Column, c.Limit)
}
