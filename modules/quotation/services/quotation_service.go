package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/almashriq/backoffice/modules/quotation/domain/aggregates/quotation"
)

type QuotationService struct {
	repo quotation.Repository
}

func NewQuotationService(repo quotation.Repository) *QuotationService {
	return &QuotationService{repo: repo}
}

func (s *QuotationService) GetPaginated(ctx context.Context, params *quotation.FindParams) ([]quotation.Quotation, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (quotation.Quotation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *QuotationService) Create(ctx context.Context, q quotation.Quotation) (quotation.Quotation, error) {
	return s.repo.Create(ctx, q)
}
