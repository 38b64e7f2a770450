package chart

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"freightdash/internal/report"
)

var ErrNoData = errors.New("no data to chart")

const (
	DefaultWidth  = 900
	DefaultHeight = 420

	barWidth    = 40
	barSpacing  = 30
	maxLabelLen = 18
)

// RenderBar draws counts as a PNG bar chart, one bar per value in the given order.
func RenderBar(w io.Writer, title string, counts []report.Count) error {
	if len(counts) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(counts))
	maxCount := 0
	for i, c := range counts {
		bars[i] = chart.Value{Label: barLabel(c.Value), Value: float64(c.Count)}
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	width := DefaultWidth
	if need := len(bars)*(barWidth+barSpacing) + 120; need > width {
		width = need
	}

	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     DefaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1},
		},
		Bars: bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", title, err)
	}
	return nil
}

func barLabel(v string) string {
	if v == "" {
		return "(blank)"
	}
	r := []rune(v)
	if len(r) > maxLabelLen {
		return string(r[:maxLabelLen-1]) + "…"
	}
	return v
}
