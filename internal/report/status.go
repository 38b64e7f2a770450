package report

import (
	"sort"
	"strings"

	"freightdash/internal/model"
)

// AllStatuses is the selector option that disables status filtering.
const AllStatuses = "All"

// StatusSelector maps raw status values to display labels for one tenant's
// records. When distinct raw values share a label, the first one encountered
// wins.
type StatusSelector struct {
	raws       []string
	labels     map[string]string
	byLabel    map[string]string
	collisions map[string][]string
}

func NewStatusSelector(records []model.OrderRecord) *StatusSelector {
	s := &StatusSelector{
		labels:     make(map[string]string),
		byLabel:    make(map[string]string),
		collisions: make(map[string][]string),
	}
	for _, rec := range records {
		raw := strings.TrimSpace(rec.StatusRaw)
		if _, seen := s.labels[raw]; seen {
			continue
		}
		label := TitleCase(raw)
		s.raws = append(s.raws, raw)
		s.labels[raw] = label

		if first, taken := s.byLabel[label]; taken {
			if len(s.collisions[label]) == 0 {
				s.collisions[label] = []string{first}
			}
			s.collisions[label] = append(s.collisions[label], raw)
			continue
		}
		s.byLabel[label] = raw
	}
	return s
}

// Label returns the display label for a raw status.
func (s *StatusSelector) Label(raw string) string {
	raw = strings.TrimSpace(raw)
	if label, ok := s.labels[raw]; ok {
		return label
	}
	return TitleCase(raw)
}

// Options returns "All" followed by the distinct labels in sorted order.
func (s *StatusSelector) Options() []string {
	labels := make([]string, 0, len(s.byLabel))
	for label := range s.byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return append([]string{AllStatuses}, labels...)
}

// Resolve maps a display label back to the raw value it selects.
func (s *StatusSelector) Resolve(label string) (string, bool) {
	raw, ok := s.byLabel[label]
	return raw, ok
}

// Filter keeps the records whose trimmed raw status is the one label resolves
// to. AllStatuses keeps everything; an unknown label keeps nothing.
func (s *StatusSelector) Filter(records []model.OrderRecord, label string) []model.OrderRecord {
	if label == AllStatuses {
		return records
	}
	raw, ok := s.Resolve(label)
	if !ok {
		return nil
	}
	var out []model.OrderRecord
	for _, rec := range records {
		if strings.TrimSpace(rec.StatusRaw) == raw {
			out = append(out, rec)
		}
	}
	return out
}

// Collisions lists labels shared by more than one raw value, raws in encounter order.
func (s *StatusSelector) Collisions() map[string][]string {
	return s.collisions
}
