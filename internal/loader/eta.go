package loader

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
}

// Naive layouts are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"1/2/06 3:04 PM",
	"1/2/06 15:04",
	"1-2-06 15:04",
}

// ParseETA converts an arrival timestamp into a UTC instant. Anything it cannot
// read yields nil.
func ParseETA(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	// Upper-cased so that "2:30 pm" matches the PM layouts.
	upper := strings.ToUpper(value)
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, upper, time.UTC); err == nil {
			return &t
		}
	}

	// Excel serial date, kept to a plausible range so that plain numbers
	// such as years are not taken for dates.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			// Serials are binary fractions of a day; snap to whole seconds.
			t = t.UTC().Round(time.Second)
			return &t
		}
	}
	return nil
}
