package report

import "freightdash/internal/model"

// Scope keeps the records that belong to tenant. The match is exact and
// case-sensitive.
func Scope(records []model.OrderRecord, tenant string) []model.OrderRecord {
	var out []model.OrderRecord
	for _, rec := range records {
		if rec.Tenant == tenant {
			out = append(out, rec)
		}
	}
	return out
}
