package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
)

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	PartNumber  string    `json:"part_number"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	UnitPrice   string    `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewItemResponse(itm item.Item) ItemResponse {
	return ItemResponse{
		ID:          itm.ID(),
		PartNumber:  itm.PartNumber(),
		Description: itm.Description(),
		Unit:        itm.Unit(),
		UnitPrice:   itm.UnitPrice().String(),
		CreatedAt:   itm.CreatedAt(),
		UpdatedAt:   itm.UpdatedAt(),
	}
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int64          `json:"total"`
}

func NewItemListResponse(items []item.Item, total int64) ItemListResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, itm := range items {
		out = append(out, NewItemResponse(itm))
	}
	return ItemListResponse{Items: out, Total: total}
}
