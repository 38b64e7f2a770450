package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"freightdash/internal/model"
)

var ErrNoNumericID = errors.New("order id has no digits")

// ETALayout is the display layout for arrival times, always in UTC.
const ETALayout = "2006-01-02 15:04"

// NoETA is shown when the arrival time is unknown.
const NoETA = "N/A"

// Format sorts records by the number embedded in their order id, highest
// first, and renders every cell for display. Ids without digits go last in
// their original order.
func Format(records []model.OrderRecord) []model.DisplayRow {
	type keyed struct {
		rec    model.OrderRecord
		digits string
		ok     bool
	}
	items := make([]keyed, len(records))
	for i, rec := range records {
		d, ok := leadingDigits(rec.OrderID)
		items[i] = keyed{rec: rec, digits: d, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return compareDigits(a.digits, b.digits) > 0
	})

	rows := make([]model.DisplayRow, len(items))
	for i, it := range items {
		rows[i] = model.DisplayRow{
			OrderID:    it.rec.OrderID,
			Status:     NormalizeCell(it.rec.StatusRaw),
			Customer:   NormalizeCell(it.rec.Tenant),
			Pickup:     NormalizeCell(it.rec.Pickup),
			Delivery:   NormalizeCell(it.rec.Delivery),
			PostalCode: NormalizeCell(it.rec.PostalCode),
			ETA:        FormatETA(it.rec.ETA),
		}
	}
	return rows
}

// FormatETA renders an arrival time as "YYYY-MM-DD HH:MM" in UTC.
func FormatETA(t *time.Time) string {
	if t == nil {
		return NoETA
	}
	return t.UTC().Format(ETALayout)
}

// OrderNumber extracts the first run of digits in id.
func OrderNumber(id string) (uint64, error) {
	d, ok := leadingDigits(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoNumericID, id)
	}
	n, err := strconv.ParseUint(d, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("order id %q: %w", id, err)
	}
	return n, nil
}

// leadingDigits returns the first run of ASCII digits in id with leading
// zeros removed ("0" stays "0").
func leadingDigits(id string) (string, bool) {
	start := strings.IndexFunc(id, isDigit)
	if start < 0 {
		return "", false
	}
	end := start
	for end < len(id) && isDigit(rune(id[end])) {
		end++
	}
	d := strings.TrimLeft(id[start:end], "0")
	if d == "" {
		d = "0"
	}
	return d, true
}

// compareDigits compares two digit strings without leading zeros as integers
// of any size.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
