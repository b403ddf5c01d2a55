package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/almashriq/backoffice/modules/quotation/domain/aggregates/quotation"
)

type LineItemResponse struct {
	ID             uuid.UUID `json:"id"`
	CatalogItemID  uuid.UUID `json:"catalog_item_id,omitempty"`
	LineItemCode   string    `json:"line_item_code,omitempty"`
	PartNumber     string    `json:"part_number,omitempty"`
	Description    string    `json:"description"`
	Unit           string    `json:"unit,omitempty"`
	Quantity       string    `json:"quantity"`
	UnitPrice      string    `json:"unit_price"`
	SourceRowIndex int       `json:"source_row_index,omitempty"`
}

type QuotationResponse struct {
	ID            uuid.UUID          `json:"id"`
	ClientName    string             `json:"client_name"`
	RequestNumber string             `json:"request_number,omitempty"`
	RequestDate   string             `json:"request_date,omitempty"`
	DueDate       string             `json:"due_date,omitempty"`
	Status        string             `json:"status"`
	Total         string             `json:"total"`
	LineItems     []LineItemResponse `json:"line_items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func NewQuotationResponse(q quotation.Quotation) QuotationResponse {
	lines := make([]LineItemResponse, 0, len(q.LineItems()))
	for _, line := range q.LineItems() {
		lines = append(lines, LineItemResponse{
			ID:             line.ID,
			CatalogItemID:  line.CatalogItemID,
			LineItemCode:   line.LineItemCode,
			PartNumber:     line.PartNumber,
			Description:    line.Description,
			Unit:           line.Unit,
			Quantity:       line.Quantity.String(),
			UnitPrice:      line.UnitPrice.String(),
			SourceRowIndex: line.SourceRowIndex,
		})
	}
	return QuotationResponse{
		ID:            q.ID(),
		ClientName:    q.ClientName(),
		RequestNumber: q.RequestNumber(),
		RequestDate:   q.RequestDate(),
		DueDate:       q.DueDate(),
		Status:        string(q.Status()),
		Total:         q.Total().String(),
		LineItems:     lines,
		CreatedAt:     q.CreatedAt(),
		UpdatedAt:     q.UpdatedAt(),
	}
}

type QuotationListResponse struct {
	Quotations []QuotationResponse `json:"quotations"`
	Total      int64               `json:"total"`
}

func NewQuotationListResponse(quotations []quotation.Quotation, total int64) QuotationListResponse {
	out := make([]QuotationResponse, 0, len(quotations))
	for _, q := range quotations {
		out = append(out, NewQuotationResponse(q))
	}
	return QuotationListResponse{Quotations: out, Total: total}
}
