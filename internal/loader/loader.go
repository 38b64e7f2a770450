package loader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"freightdash/internal/model"
)

var ErrSourceUnreadable = errors.New("order source unreadable")

// Source column headers as exported by the TMS.
const (
	ColOrderID    = "fullId"
	ColStatus     = "status"
	ColCustomer   = "customer.name"
	ColPickup     = "pickupCompanyName__c"
	ColDelivery   = "deliveryCompanyName__c"
	ColPostalCode = "deliveryZipPostal__c"
	ColETA        = "expectedArrival__c.dateTimeInLocation"
)

// RequiredColumns lists the headers a workbook must carry, in projection order.
var RequiredColumns = []string{ColOrderID, ColStatus, ColCustomer, ColPickup, ColDelivery, ColPostalCode, ColETA}

// ReadOrders decodes the first worksheet of an xlsx workbook into order records.
// Rows are deduplicated on the order id, first occurrence wins.
func ReadOrders(r io.Reader) ([]model.OrderRecord, error) {
	sheet, err := readSheet(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	idx, err := headerIndex(sheet.rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	return Dedupe(project(sheet, idx)), nil
}

// sheetRows holds the first worksheet twice: as displayed (number formats
// applied) and as stored. Date cells are stored as Excel serials.
type sheetRows struct {
	rows   [][]string
	stored [][]string
}

func readSheet(r io.Reader) (*sheetRows, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("worksheet is empty")
	}
	stored, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read raw rows: %w", err)
	}
	return &sheetRows{rows: rows, stored: stored}, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func project(sheet *sheetRows, idx map[string]int) []model.OrderRecord {
	out := make([]model.OrderRecord, 0, len(sheet.rows)-1)
	for n := 1; n < len(sheet.rows); n++ {
		row := sheet.rows[n]
		if isBlank(row) {
			continue
		}
		etaRaw := cellValue(row, idx[ColETA])
		eta := ParseETA(etaRaw)
		if n < len(sheet.stored) {
			// A date-formatted cell shows text like "03-19-25" or "14:30";
			// its stored serial carries the full instant.
			if stored := ParseETA(cellValue(sheet.stored[n], idx[ColETA])); stored != nil {
				eta = stored
			}
		}
		out = append(out, model.OrderRecord{
			OrderID:    cellValue(row, idx[ColOrderID]),
			StatusRaw:  cellValue(row, idx[ColStatus]),
			Tenant:     cellValue(row, idx[ColCustomer]),
			Pickup:     cellValue(row, idx[ColPickup]),
			Delivery:   cellValue(row, idx[ColDelivery]),
			PostalCode: cellValue(row, idx[ColPostalCode]),
			ETA:        eta,
			ETARaw:     etaRaw,
		})
	}
	return out
}

// Dedupe keeps the first record for every order id, preserving order.
func Dedupe(records []model.OrderRecord) []model.OrderRecord {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, rec := range records {
		if _, ok := seen[rec.OrderID]; ok {
			continue
		}
		seen[rec.OrderID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// cellValue returns the cell untouched; trimming belongs to later stages.
func cellValue(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
