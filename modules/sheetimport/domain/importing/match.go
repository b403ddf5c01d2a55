package importing

import (
	"fmt"
	"strings"

	"github.com/almashriq/backoffice/modules/sheetimport/domain/schema"
)

// Match precedence tiers. Confidence is deliberately a step function of the
// tier rather than a continuous similarity, so the mapping screen stays
// explainable to the person reviewing it.
const (
	confidenceExact      = 1.0
	confidenceSubstring  = 0.8
	confidenceNormalized = 0.6
)

// MatchHeaders proposes a canonical-field-to-column mapping for a header row.
// For each field the first header achieving the highest-precedence match wins;
// ties break by first occurrence. A column is claimed by at most one field.
func MatchHeaders(header []string) MatchResult {
	result := MatchResult{
		Mapping:    make(Mapping),
		Confidence: make(map[string]float64),
	}

	result.Warnings = append(result.Warnings, duplicateHeaderWarnings(header)...)

	claimed := make(map[int]bool, len(header))
	for _, field := range schema.Fields() {
		idx, confidence := findColumn(header, claimed, field)
		if idx < 0 {
			if field.Required {
				result.UnmatchedRequired = append(result.UnmatchedRequired, field.Key)
			}
			continue
		}
		claimed[idx] = true
		result.Mapping[field.Key] = header[idx]
		result.Confidence[field.Key] = confidence
	}

	return result
}

func findColumn(header []string, claimed map[int]bool, field schema.Field) (int, float64) {
	type matcher struct {
		confidence float64
		matches    func(cell, alias string) bool
	}
	tiers := []matcher{
		{confidenceExact, func(cell, alias string) bool {
			return strings.EqualFold(cell, alias)
		}},
		{confidenceSubstring, func(cell, alias string) bool {
			return containsFold(cell, alias) || containsFold(alias, cell)
		}},
		{confidenceNormalized, func(cell, alias string) bool {
			nc, na := normalizeHeader(cell), normalizeHeader(alias)
			if nc == "" || na == "" {
				return false
			}
			return nc == na || strings.Contains(nc, na) || strings.Contains(na, nc)
		}},
	}

	for _, tier := range tiers {
		for idx, cell := range header {
			if claimed[idx] || cell == "" {
				continue
			}
			for _, alias := range field.Aliases {
				if tier.matches(cell, alias) {
					return idx, tier.confidence
				}
			}
		}
	}
	return -1, 0
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// normalizeHeader lowercases, trims, and collapses internal whitespace.
// Headers frequently carry trailing spaces (e.g. "العميل ").
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func duplicateHeaderWarnings(header []string) []string {
	seen := make(map[string]int, len(header))
	var warnings []string
	for i, cell := range header {
		key := normalizeHeader(cell)
		if key == "" {
			continue
		}
		if first, ok := seen[key]; ok {
			warnings = append(warnings, fmt.Sprintf(
				"duplicate header %q at column %d ignored (first seen at column %d)", cell, i+1, first+1))
			continue
		}
		seen[key] = i
	}
	return warnings
}

// DetectColumns derives the column descriptors shown on the mapping screen,
// with up to three sample values per column.
func DetectColumns(header []string, rows []SheetRow) []DetectedColumn {
	const maxSamples = 3

	columns := make([]DetectedColumn, 0, len(header))
	for _, label := range header {
		if strings.TrimSpace(label) == "" {
			continue
		}
		col := DetectedColumn{Label: label, Samples: []string{}}
		for _, row := range rows {
			if len(col.Samples) == maxSamples {
				break
			}
			if v := strings.TrimSpace(row.Cells[label]); v != "" {
				col.Samples = append(col.Samples, v)
			}
		}
		columns = append(columns, col)
	}
	return columns
}

// ValidateMapping checks a user-confirmed mapping: every required field must
// resolve to exactly one column and no column may be claimed twice.
func ValidateMapping(m Mapping, header []string) []string {
	var problems []string

	known := make(map[string]bool, len(header))
	for _, label := range header {
		known[label] = true
	}

	byColumn := make(map[string]string, len(m))
	for key, label := range m {
		if _, ok := schema.ByKey(key); !ok {
			problems = append(problems, fmt.Sprintf("unknown field %q", key))
			continue
		}
		if label == "" {
			continue
		}
		if !known[label] {
			problems = append(problems, fmt.Sprintf("field %q maps to unknown column %q", key, label))
			continue
		}
		if prev, ok := byColumn[label]; ok {
			problems = append(problems, fmt.Sprintf("column %q mapped to both %q and %q", label, prev, key))
			continue
		}
		byColumn[label] = key
	}

	for _, key := range schema.RequiredKeys() {
		if m[key] == "" {
			problems = append(problems, fmt.Sprintf("required field %q is not mapped", key))
		}
	}

	return problems
}
