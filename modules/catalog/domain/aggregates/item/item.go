package item

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one catalog entry a trading company can quote or order.
type Item struct {
	id          uuid.UUID
	partNumber  string
	description string
	unit        string
	unitPrice   decimal.Decimal
	createdAt   time.Time
	updatedAt   time.Time
}

func New(partNumber, description, unit string, unitPrice decimal.Decimal) Item {
	return Item{
		partNumber:  normalizePartNumber(partNumber),
		description: strings.TrimSpace(description),
		unit:        strings.TrimSpace(unit),
		unitPrice:   unitPrice,
	}
}

func Hydrate(
	id uuid.UUID,
	partNumber string,
	description string,
	unit string,
	unitPrice decimal.Decimal,
	createdAt time.Time,
	updatedAt time.Time,
) Item {
	return Item{
		id:          id,
		partNumber:  normalizePartNumber(partNumber),
		description: strings.TrimSpace(description),
		unit:        strings.TrimSpace(unit),
		unitPrice:   unitPrice,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (i Item) ID() uuid.UUID              { return i.id }
func (i Item) PartNumber() string         { return i.partNumber }
func (i Item) Description() string        { return i.description }
func (i Item) Unit() string               { return i.unit }
func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i Item) CreatedAt() time.Time       { return i.createdAt }
func (i Item) UpdatedAt() time.Time       { return i.updatedAt }
func (i Item) IsZero() bool               { return i.id == uuid.Nil && i.partNumber == "" && i.description == "" }

func normalizePartNumber(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
