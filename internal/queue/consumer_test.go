package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahyaabohashemstu/yukleme/internal/model"
	"github.com/yahyaabohashemstu/yukleme/internal/service"
)

func strp(s string) *string { return &s }

func TestEventFromLoadingTotals(t *testing.T) {
	l := model.Loading{
		ID:                 "11112222-3333-4444-5555-666677778888",
		Plate1:             strp("34 ABC 123"),
		DriverName:         strp("Mehmet"),
		DestinationCompany: strp("Acme"),
		Products: []model.Product{
			{Name: "boxes", Quantity: 10, Pallets: 2},
			{Name: "crates", Quantity: 5, Pallets: 1},
		},
	}

	ev := EventFromLoading(l, service.ClassUrgentUpdate)
	assert.Equal(t, "urgent-update", ev.Classification)
	assert.Equal(t, 2, ev.ProductKinds)
	assert.Equal(t, 15, ev.TotalQuantity)
	assert.Equal(t, 3, ev.TotalPallets)
	assert.Equal(t, "34 ABC 123", ev.Plate1)
	assert.Equal(t, "", ev.Plate2, "nil pointer maps to empty string")
}

func TestFormatReportMessage(t *testing.T) {
	ev := LoadingReportEvent{
		LoadingID:      "11112222-3333-4444-5555-666677778888",
		Classification: "new",
		Plate1:         "34 ABC 123",
		Plate2:         "06 XYZ 999",
		DriverName:     "Mehmet",
		Destination:    "Acme",
		Country:        "DE",
		Customer:       "Kunde GmbH",
		ProductKinds:   2,
		TotalQuantity:  15,
		TotalPallets:   3,
	}

	msg := FormatReportMessage(ev)
	require.Contains(t, msg, "Yeni Rapor")
	assert.Contains(t, msg, "<code>11112222</code>", "report id is shortened to 8 chars")
	assert.Contains(t, msg, "34 ABC 123 / 06 XYZ 999")
	assert.Contains(t, msg, "Toplam Adet: 15")
	assert.Contains(t, msg, "Toplam Palet: 3")
	assert.Contains(t, msg, "Acme (DE)")
}

func TestFormatReportMessageUrgent(t *testing.T) {
	msg := FormatReportMessage(LoadingReportEvent{
		LoadingID:      "short",
		Classification: "urgent-update",
	})
	require.Contains(t, msg, "Rapor Güncellendi")
	assert.Contains(t, msg, "<code>short</code>")
	// Missing optional fields render as dashes, not empty strings.
	assert.Contains(t, msg, "Sürücü:</b> -")
}
