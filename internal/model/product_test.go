package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProducts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Product
	}{
		{
			name: "empty payload",
			raw:  "",
			want: []Product{},
		},
		{
			name: "malformed payload degrades to empty",
			raw:  "{not json",
			want: []Product{},
		},
		{
			name: "plain rows",
			raw:  `[{"name":"boxes","quantity":10,"pallets":2}]`,
			want: []Product{{Name: "boxes", Quantity: 10, Pallets: 2}},
		},
		{
			name: "string counts from form data",
			raw:  `[{"name":"crates","quantity":"7","pallets":"1"}]`,
			want: []Product{{Name: "crates", Quantity: 7, Pallets: 1}},
		},
		{
			name: "missing and malformed counts default to zero",
			raw:  `[{"name":"bags"},{"name":"rolls","quantity":"lots","pallets":null}]`,
			want: []Product{{Name: "bags"}, {Name: "rolls"}},
		},
		{
			name: "negative counts clamp to zero",
			raw:  `[{"name":"drums","quantity":-3,"pallets":-1}]`,
			want: []Product{{Name: "drums"}},
		},
		{
			name: "order preserved",
			raw:  `[{"name":"b","quantity":1},{"name":"a","quantity":2}]`,
			want: []Product{{Name: "b", Quantity: 1}, {Name: "a", Quantity: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProducts(tt.raw))
		})
	}
}
