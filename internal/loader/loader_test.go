package loader

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var header = []string{
	"id", ColOrderID, ColStatus, ColCustomer, ColPickup, ColDelivery, ColPostalCode, "notes", ColETA,
}

func workbook(t *testing.T, rows ...[]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, append([][]string{header}, rows...)))
	return &buf
}

func TestReadOrders_ProjectsColumns(t *testing.T) {
	buf := workbook(t,
		[]string{"1", "ORD-100", " in transit ", "Biyork", "  mcKAY logistics  ", "Acme", "V5K 0A1", "ignored", "2025-03-19T14:30:00Z"},
	)

	records, err := ReadOrders(buf)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "ORD-100", rec.OrderID)
	assert.Equal(t, " in transit ", rec.StatusRaw)
	assert.Equal(t, "Biyork", rec.Tenant)
	assert.Equal(t, "  mcKAY logistics  ", rec.Pickup)
	assert.Equal(t, "Acme", rec.Delivery)
	assert.Equal(t, "V5K 0A1", rec.PostalCode)
	assert.Equal(t, "2025-03-19T14:30:00Z", rec.ETARaw)
	require.NotNil(t, rec.ETA)
	assert.True(t, rec.ETA.Equal(time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)))
}

func TestReadOrders_DedupeKeepsFirst(t *testing.T) {
	buf := workbook(t,
		[]string{"1", "ORD-1", "booked", "Biyork", "P1", "D1", "A1", "", ""},
		[]string{"2", "ORD-2", "booked", "Biyork", "P2", "D2", "A2", "", ""},
		[]string{"3", "ORD-1", "delivered", "Aspen Clean", "P3", "D3", "A3", "", ""},
	)

	records, err := ReadOrders(buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ORD-1", records[0].OrderID)
	assert.Equal(t, "booked", records[0].StatusRaw)
	assert.Equal(t, "Biyork", records[0].Tenant)
	assert.Equal(t, "ORD-2", records[1].OrderID)
}

func TestReadOrders_BadETAIsNil(t *testing.T) {
	buf := workbook(t,
		[]string{"1", "ORD-1", "booked", "Biyork", "P", "D", "A", "", "sometime next week"},
		[]string{"2", "ORD-2", "booked", "Biyork", "P", "D", "A"},
	)

	records, err := ReadOrders(buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[0].ETA)
	assert.Nil(t, records[1].ETA)
	assert.Equal(t, "", records[1].ETARaw)
}

func TestReadOrders_MissingColumn(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, [][]string{{ColOrderID, ColStatus}, {"ORD-1", "booked"}}))

	_, err := ReadOrders(&buf)
	require.ErrorIs(t, err, ErrSourceUnreadable)
	assert.Contains(t, err.Error(), ColCustomer)
}

func TestReadOrders_NotAWorkbook(t *testing.T) {
	_, err := ReadOrders(strings.NewReader("fullId,status\nORD-1,booked\n"))
	require.ErrorIs(t, err, ErrSourceUnreadable)
}

func TestReadOrders_EmptySheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil))

	_, err := ReadOrders(&buf)
	require.ErrorIs(t, err, ErrSourceUnreadable)
}

func TestParseETA(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-19T14:30:00Z", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{"2025-03-19T10:30:00-04:00", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{"2025-03-19T14:30:00.250Z", time.Date(2025, 3, 19, 14, 30, 0, 250000000, time.UTC)},
		{"2025-03-19 14:30:00", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{"2025-03-19T14:30:00", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{"3/19/2025 2:30 PM", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{"3/19/2025 2:30 pm", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{"3/19/2025 2:30:15 am", time.Date(2025, 3, 19, 2, 30, 15, 0, time.UTC)},
		{"3/19/25 2:30 Pm", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{"3/19/25 14:30", time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)},
		{" 2025-03-19 ", time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := ParseETA(tc.in)
		if assert.NotNil(t, got, tc.in) {
			assert.True(t, got.Equal(tc.want), "%s: got %s", tc.in, got)
			assert.Equal(t, time.UTC, got.Location(), tc.in)
		}
	}

	for _, bad := range []string{"", "   ", "N/A", "2025", "tomorrow", "13/45/2025 10:00"} {
		assert.Nil(t, ParseETA(bad), bad)
	}
}

func TestParseETA_ExcelSerial(t *testing.T) {
	got := ParseETA("45735.5")
	require.NotNil(t, got)
	assert.Equal(t, "2025-03-19 12:00", got.Format("2006-01-02 15:04"))
}

// dateCellWorkbook writes one order whose ETA is a real Excel date cell
// displayed with the built-in number format numFmt.
func dateCellWorkbook(t *testing.T, eta time.Time, numFmt int) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	row := []string{"1", "ORD-1", "booked", "Biyork", "P", "D", "A", ""}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))

	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(sheet, "I2", eta))
	require.NoError(t, f.SetCellStyle(sheet, "I2", "I2", style))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadOrders_DateFormattedETA(t *testing.T) {
	eta := time.Date(2025, 3, 19, 14, 30, 0, 0, time.UTC)

	for _, numFmt := range []int{14, 15, 20, 22} {
		records, err := ReadOrders(dateCellWorkbook(t, eta, numFmt))
		require.NoError(t, err, "numFmt %d", numFmt)
		require.Len(t, records, 1)

		got := records[0].ETA
		if assert.NotNil(t, got, "numFmt %d shows %q", numFmt, records[0].ETARaw) {
			assert.Equal(t, "2025-03-19 14:30", got.Format("2006-01-02 15:04"), "numFmt %d", numFmt)
		}
	}
}
