package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Product is a single line item of a loading report: a product name with
// the quantity loaded and the number of pallets it occupies.  Quantity and
// pallet counts are never negative; malformed values degrade to zero.
//
// Fields:
//  Name     – free-text product name.
//  Quantity – number of units loaded (>= 0).
//  Pallets  – number of pallets used (>= 0).
type Product struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Pallets  int    `json:"pallets"`
}

// flexCount accepts a JSON number, a numeric string, or null and coerces
// everything else to zero.  Clients submit product rows from a form, so
// counts frequently arrive as strings.
type flexCount int

func (n *flexCount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		*n = 0
		return nil
	}
	*n = flexCount(v)
	return nil
}

// ParseProducts decodes the products payload submitted with a loading
// report.  The payload arrives as a JSON string inside multipart form
// data.  A malformed payload yields an empty list rather than an error;
// malformed counts inside an otherwise valid list default to zero.
func ParseProducts(raw string) []Product {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Product{}
	}
	var rows []struct {
		Name     string    `json:"name"`
		Quantity flexCount `json:"quantity"`
		Pallets  flexCount `json:"pallets"`
	}
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return []Product{}
	}
	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, Product{
			Name:     strings.TrimSpace(r.Name),
			Quantity: int(r.Quantity),
			Pallets:  int(r.Pallets),
		})
	}
	return out
}
