package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
)

type ItemService struct {
	repo item.Repository
}

func NewItemService(repo item.Repository) *ItemService {
	return &ItemService{repo: repo}
}

func (s *ItemService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ItemService) GetAll(ctx context.Context) ([]item.Item, error) {
	return s.repo.GetAll(ctx)
}

func (s *ItemService) GetPaginated(ctx context.Context, params *item.FindParams) ([]item.Item, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (item.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ItemService) GetByPartNumber(ctx context.Context, partNumber string) (item.Item, error) {
	return s.repo.GetByPartNumber(ctx, partNumber)
}

func (s *ItemService) Create(ctx context.Context, itm item.Item) (item.Item, error) {
	return s.repo.Create(ctx, itm)
}
