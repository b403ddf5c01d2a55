package quotation

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("quotation not found")

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Quotation, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Quotation, error)
	Create(ctx context.Context, q Quotation) (Quotation, error)
}
