package quotation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// Quotation is one client request with its quoted line items.
type Quotation struct {
	id            uuid.UUID
	clientName    string
	requestNumber string
	requestDate   string
	dueDate       string
	status        Status
	lineItems     []LineItem
	createdAt     time.Time
	updatedAt     time.Time
}

// LineItem is one quoted row. SourceRowIndex points back at the spreadsheet
// row the line was imported from; zero for lines entered by hand.
type LineItem struct {
	ID             uuid.UUID
	CatalogItemID  uuid.UUID
	LineItemCode   string
	PartNumber     string
	Description    string
	Unit           string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	SourceRowIndex int
}

func New(clientName, requestNumber, requestDate, dueDate string, lines []LineItem) Quotation {
	return Quotation{
		clientName:    strings.TrimSpace(clientName),
		requestNumber: strings.TrimSpace(requestNumber),
		requestDate:   requestDate,
		dueDate:       dueDate,
		status:        StatusDraft,
		lineItems:     lines,
	}
}

func Hydrate(
	id uuid.UUID,
	clientName string,
	requestNumber string,
	requestDate string,
	dueDate string,
	status Status,
	lines []LineItem,
	createdAt time.Time,
	updatedAt time.Time,
) Quotation {
	return Quotation{
		id:            id,
		clientName:    strings.TrimSpace(clientName),
		requestNumber: strings.TrimSpace(requestNumber),
		requestDate:   requestDate,
		dueDate:       dueDate,
		status:        status,
		lineItems:     lines,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (q Quotation) ID() uuid.UUID         { return q.id }
func (q Quotation) ClientName() string    { return q.clientName }
func (q Quotation) RequestNumber() string { return q.requestNumber }
func (q Quotation) RequestDate() string   { return q.requestDate }
func (q Quotation) DueDate() string       { return q.dueDate }
func (q Quotation) Status() Status        { return q.status }
func (q Quotation) LineItems() []LineItem { return q.lineItems }
func (q Quotation) CreatedAt() time.Time  { return q.createdAt }
func (q Quotation) UpdatedAt() time.Time  { return q.updatedAt }

func (q Quotation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range q.lineItems {
		total = total.Add(line.Quantity.Mul(line.UnitPrice))
	}
	return total
}
