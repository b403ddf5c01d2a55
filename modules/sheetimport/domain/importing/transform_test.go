package importing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/schema"
)

var testMapping = importing.Mapping{
	schema.KeyClientName:  "Client",
	schema.KeyLineItem:    "Line Item",
	schema.KeyPartNumber:  "Part No",
	schema.KeyDescription: "Description",
	schema.KeyQuantity:    "Qty",
	schema.KeyUnitPrice:   "Unit Price",
	schema.KeyRequestDate: "Date",
}

func TestTransform_FullRow(t *testing.T) {
	row := importing.RawRow{
		"Client":      "Aramco",
		"Line Item":   "1234.567.GENRAL.0001",
		"Part No":     "WP-2HP-220V",
		"Description": "Water pump 2HP 220V",
		"Qty":         "3",
		"Unit Price":  "$1,250.50",
		"Date":        "2026-03-15",
	}

	rec, ok := importing.Transform(row, 4, testMapping, importing.TransformConfig{})

	require.True(t, ok)
	require.True(t, rec.Valid)
	assert.Equal(t, 4, rec.SourceRowIndex)
	assert.Equal(t, "Aramco", rec.ClientName)
	// line item codes stay verbatim strings, never coerced to numbers
	assert.Equal(t, "1234.567.GENRAL.0001", rec.LineItem)
	assert.Equal(t, "WP-2HP-220V", rec.PartNumber)
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, rec.UnitPrice.Equal(decimal.RequireFromString("1250.50")))
	assert.Equal(t, "2026-03-15", rec.RequestDate)
	assert.Empty(t, rec.Problems)
}

func TestTransform_BlankRowDropped(t *testing.T) {
	row := importing.RawRow{"Client": "", "Description": "  ", "Qty": ""}

	_, ok := importing.Transform(row, 10, testMapping, importing.TransformConfig{})

	require.False(t, ok)
}

func TestTransform_PlaceholderClient(t *testing.T) {
	row := importing.RawRow{"Client": "", "Description": "Bearing 6204", "Qty": "2"}

	rec, ok := importing.Transform(row, 2, testMapping, importing.TransformConfig{PlaceholderClient: "walk-in"})

	require.True(t, ok)
	require.True(t, rec.Valid)
	assert.Equal(t, "walk-in", rec.ClientName)
}

func TestTransform_MissingDescriptionKeptInvalid(t *testing.T) {
	row := importing.RawRow{"Client": "Globex", "Description": "", "Qty": "7"}

	rec, ok := importing.Transform(row, 3, testMapping, importing.TransformConfig{})

	require.True(t, ok, "row is retained, not dropped")
	assert.False(t, rec.Valid)
	require.Len(t, rec.Problems, 1)
	assert.Contains(t, rec.Problems[0], "description")
}

func TestTransform_Amounts(t *testing.T) {
	tests := []struct {
		name        string
		qty         string
		want        string
		wantProblem bool
	}{
		{name: "plain integer", qty: "12", want: "12"},
		{name: "thousand separators", qty: "1,200", want: "1200"},
		{name: "currency symbol", qty: "﷼ 99.5", want: "99.5"},
		{name: "blank defaults to zero", qty: "", want: "0"},
		{name: "garbage defaults to zero", qty: "N/A", want: "0", wantProblem: true},
		{name: "negative clamps to zero", qty: "-4", want: "0", wantProblem: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := importing.RawRow{"Client": "ACME", "Description": "Valve", "Qty": tt.qty}
			rec, ok := importing.Transform(row, 1, testMapping, importing.TransformConfig{})
			require.True(t, ok)
			assert.True(t, rec.Quantity.Equal(decimal.RequireFromString(tt.want)),
				"got %s", rec.Quantity)
			if tt.wantProblem {
				require.NotEmpty(t, rec.Problems)
				assert.Contains(t, rec.Problems[0], "quantity")
			} else {
				assert.Empty(t, rec.Problems)
			}
		})
	}
}

func TestTransform_Dates(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{name: "iso", cell: "2026-01-30", want: "2026-01-30"},
		{name: "slash dmy", cell: "30/01/2026", want: "2026-01-30"},
		{name: "serial", cell: "45000", want: "2023-03-15"},
		{name: "unparseable", cell: "next week", want: ""},
		{name: "blank", cell: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := importing.RawRow{"Client": "ACME", "Description": "Valve", "Qty": "1", "Date": tt.cell}
			rec, ok := importing.Transform(row, 1, testMapping, importing.TransformConfig{})
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.RequestDate)
		})
	}
}
