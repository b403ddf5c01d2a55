package importing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawRow is one spreadsheet row keyed by its literal header label. It is the
// loosely-typed boundary shape and must not leak past Transform.
type RawRow map[string]string

// SheetRow pairs a raw row with its 1-based row number in the source sheet,
// so blank or skipped lines do not shift traceability.
type SheetRow struct {
	Number int    `json:"number"`
	Cells  RawRow `json:"cells"`
}

// DetectedColumn describes one uploaded column for the mapping UI.
type DetectedColumn struct {
	Label   string   `json:"label"`
	Samples []string `json:"samples"`
}

// Mapping resolves canonical field keys to detected column labels.
type Mapping map[string]string

// MatchResult is the outcome of running the header matcher once per sheet.
type MatchResult struct {
	Mapping           Mapping
	Confidence        map[string]float64
	UnmatchedRequired []string
	Warnings          []string
}

// StagedRecord is one row after transformation into canonical field values,
// not yet committed.
type StagedRecord struct {
	SourceRowIndex int
	ClientName     string
	RequestNumber  string
	LineItem       string
	PartNumber     string
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Unit           string
	RequestDate    string
	DueDate        string

	Raw      RawRow
	Valid    bool
	Problems []string
}

type Classification string

const (
	ClassificationNew       Classification = "new"
	ClassificationDuplicate Classification = "duplicate"
	ClassificationAmbiguous Classification = "ambiguous"
)

// Candidate is one ranked catalog match for a staged record.
type Candidate struct {
	ItemID     uuid.UUID `json:"item_id"`
	PartNumber string    `json:"part_number"`
	Similarity float64   `json:"similarity"`
}

// Verdict classifies a staged record against the existing catalog. Producing
// one never mutates the catalog.
type Verdict struct {
	SourceRowIndex int            `json:"source_row_index"`
	Classification Classification `json:"classification"`
	MatchedItemID  uuid.UUID      `json:"matched_item_id,omitempty"`
	Confidence     float64        `json:"confidence"`
	Candidates     []Candidate    `json:"candidates,omitempty"`
}
