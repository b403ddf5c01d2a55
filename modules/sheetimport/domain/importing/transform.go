package importing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almashriq/backoffice/modules/sheetimport/domain/schema"
)

// TransformConfig tunes the permissive defaults of the row transformer.
type TransformConfig struct {
	// PlaceholderClient substitutes a blank client name instead of rejecting
	// the row. Data-preserving by long-standing back-office convention.
	PlaceholderClient string
}

func (c TransformConfig) placeholder() string {
	if c.PlaceholderClient == "" {
		return "unspecified"
	}
	return c.PlaceholderClient
}

// Transform converts one raw row into a StagedRecord using the confirmed
// mapping. The second return value is false when the row carries no business
// fields at all (blank trailing lines) and should be dropped silently.
func Transform(row RawRow, rowIndex int, m Mapping, cfg TransformConfig) (StagedRecord, bool) {
	rec := StagedRecord{
		SourceRowIndex: rowIndex,
		Quantity:       decimal.Zero,
		UnitPrice:      decimal.Zero,
		Raw:            row,
		Valid:          true,
	}

	populated := 0
	for _, field := range schema.Fields() {
		label, ok := m[field.Key]
		if !ok || label == "" {
			continue
		}
		cell := strings.TrimSpace(row[label])
		if cell != "" {
			populated++
		}

		switch field.Kind {
		case schema.KindNumber:
			value, problem := parseAmount(cell)
			if problem != "" {
				rec.Problems = append(rec.Problems, fmt.Sprintf("%s: %s", field.Key, problem))
			}
			rec.setNumber(field.Key, value)
		case schema.KindDate:
			rec.setText(field.Key, parseDate(cell))
		default:
			rec.setText(field.Key, cell)
		}
	}

	if populated == 0 {
		return StagedRecord{}, false
	}

	if rec.ClientName == "" {
		rec.ClientName = cfg.placeholder()
	}
	if rec.Description == "" {
		rec.Valid = false
		rec.Problems = append(rec.Problems, "description: required field is blank")
	}

	return rec, true
}

func (r *StagedRecord) setText(key, value string) {
	switch key {
	case schema.KeyClientName:
		r.ClientName = value
	case schema.KeyRequestNumber:
		r.RequestNumber = value
	case schema.KeyLineItem:
		r.LineItem = value
	case schema.KeyPartNumber:
		r.PartNumber = value
	case schema.KeyDescription:
		r.Description = value
	case schema.KeyUnit:
		r.Unit = value
	case schema.KeyRequestDate:
		r.RequestDate = value
	case schema.KeyDueDate:
		r.DueDate = value
	}
}

func (r *StagedRecord) setNumber(key string, value decimal.Decimal) {
	switch key {
	case schema.KeyQuantity:
		r.Quantity = value
	case schema.KeyUnitPrice:
		r.UnitPrice = value
	}
}

// currencyRunes are stripped before numeric parsing, together with thousand
// separators and whitespace.
const currencyRunes = "$€£¥₹﷼"

// parseAmount parses a cell permissively: currency symbols and thousand
// separators are stripped, absent or non-numeric values become zero, and
// negatives clamp to zero (quantities and prices are non-negative).
func parseAmount(cell string) (decimal.Decimal, string) {
	if cell == "" {
		return decimal.Zero, ""
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == ' ' || r == ' ':
			return -1
		case strings.ContainsRune(currencyRunes, r):
			return -1
		}
		return r
	}, cell)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, ""
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("value %q is not numeric, defaulted to 0", cell)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Sprintf("negative value %q clamped to 0", cell)
	}
	return value, ""
}

// spreadsheet serial dates count days since 1899-12-30
var serialDateEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2.1.2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseDate normalizes a cell to an ISO calendar date. Invalid or absent
// values become the empty string, never an error.
func parseDate(cell string) string {
	if cell == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Format("2006-01-02")
		}
	}

	if serial, err := decimal.NewFromString(cell); err == nil {
		days := serial.IntPart()
		// plausible serial range: 1900-01-01 .. ~2173
		if days > 0 && days < 100000 {
			return serialDateEpoch.AddDate(0, 0, int(days)).Format("2006-01-02")
		}
	}

	return ""
}
