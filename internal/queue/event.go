// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into chat notifications.
package queue

// LoadingReportEvent is published when a loading report is created or
// edited after a manager already viewed it.  It carries enough of the
// report for downstream consumers to format a notification without
// querying the primary database.
type LoadingReportEvent struct {
	LoadingID      string `json:"loading_id"`
	Classification string `json:"classification"` // "new" | "urgent-update"
	CreatedAt      string `json:"created_at"`
	LoadingDate    string `json:"loading_date,omitempty"`
	Plate1         string `json:"plate1,omitempty"`
	Plate2         string `json:"plate2,omitempty"`
	DriverName     string `json:"driver_name,omitempty"`
	Destination    string `json:"destination,omitempty"`
	Country        string `json:"country,omitempty"`
	Customer       string `json:"customer,omitempty"`
	ProductKinds   int    `json:"product_kinds"`
	TotalQuantity  int    `json:"total_quantity"`
	TotalPallets   int    `json:"total_pallets"`
}
