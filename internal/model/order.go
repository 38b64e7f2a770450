package model

import (
	"time"
)

type OrderRecord struct {
	OrderID    string     `json:"order_id"`
	StatusRaw  string     `json:"status"`
	Tenant     string     `json:"customer"`
	Pickup     string     `json:"pickup"`
	Delivery   string     `json:"delivery"`
	PostalCode string     `json:"postal_code"`
	ETA        *time.Time `json:"eta,omitempty"`
	ETARaw     string     `json:"-"`
}

// DisplayRow is an order ready to be rendered: every cell is already formatted.
type DisplayRow struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	Customer   string `json:"customer"`
	Pickup     string `json:"pickup"`
	Delivery   string `json:"delivery"`
	PostalCode string `json:"postal_code"`
	ETA        string `json:"eta"`
}

// Columns are the display headers in table order.
var Columns = []string{"Order ID", "Status", "Customer", "Pickup", "Delivery", "Postal Code", "ETA"}

// Cells returns the row in Columns order.
func (r DisplayRow) Cells() []string {
	return []string{r.OrderID, r.Status, r.Customer, r.Pickup, r.Delivery, r.PostalCode, r.ETA}
}
