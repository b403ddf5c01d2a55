package item

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = gerrors.New("catalog item not found")
	ErrPartNumberTaken = gerrors.New("part number already in catalog")
)

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]Item, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Item, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Item, error)
	GetByPartNumber(ctx context.Context, partNumber string) (Item, error)
	Create(ctx context.Context, itm Item) (Item, error)
}
