package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
	"github.com/almashriq/backoffice/pkg/composables"
)

const (
	selectItemColumns = `id, part_number, description, unit, unit_price, created_at, updated_at`

	selectAllItemsSQL = `SELECT ` + selectItemColumns + ` FROM catalog_items ORDER BY part_number`

	selectItemByIDSQL = `SELECT ` + selectItemColumns + ` FROM catalog_items WHERE id = $1`

	selectItemByPartNumberSQL = `SELECT ` + selectItemColumns + ` FROM catalog_items WHERE part_number = $1`

	selectItemsPaginatedSQL = `
		SELECT ` + selectItemColumns + `
		FROM catalog_items
		WHERE ($1 = '' OR part_number ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY part_number
		OFFSET $2 LIMIT $3`

	countItemsFilteredSQL = `
		SELECT COUNT(*)
		FROM catalog_items
		WHERE ($1 = '' OR part_number ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`

	countItemsSQL = `SELECT COUNT(*) FROM catalog_items`

	insertItemSQL = `
		INSERT INTO catalog_items (part_number, description, unit, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + selectItemColumns
)

type ItemRepository struct{}

func NewItemRepository() item.Repository {
	return &ItemRepository{}
}

func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countItemsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count catalog items: %w", err)
	}
	return count, nil
}

func (r *ItemRepository) GetAll(ctx context.Context) ([]item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectAllItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *ItemRepository) GetPaginated(ctx context.Context, params *item.FindParams) ([]item.Item, int64, error) {
	if params == nil {
		params = &item.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	q := strings.TrimSpace(params.Q)

	rows, err := tx.Query(ctx, selectItemsPaginatedSQL, q, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, countItemsFilteredSQL, q).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count catalog items: %w", err)
	}

	return items, total, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return item.Item{}, err
	}
	itm, err := scanItem(tx.QueryRow(ctx, selectItemByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item.Item{}, item.ErrNotFound
		}
		return item.Item{}, err
	}
	return itm, nil
}

func (r *ItemRepository) GetByPartNumber(ctx context.Context, partNumber string) (item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return item.Item{}, err
	}
	normalized := strings.ToUpper(strings.TrimSpace(partNumber))
	itm, err := scanItem(tx.QueryRow(ctx, selectItemByPartNumberSQL, normalized))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item.Item{}, item.ErrNotFound
		}
		return item.Item{}, err
	}
	return itm, nil
}

func (r *ItemRepository) Create(ctx context.Context, itm item.Item) (item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return item.Item{}, err
	}

	created, err := scanItem(tx.QueryRow(
		ctx,
		insertItemSQL,
		itm.PartNumber(),
		itm.Description(),
		itm.Unit(),
		itm.UnitPrice(),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return item.Item{}, item.ErrPartNumberTaken
		}
		return item.Item{}, fmt.Errorf("create catalog item: %w", err)
	}
	return created, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (item.Item, error) {
	var (
		id          uuid.UUID
		partNumber  string
		description string
		unit        string
		unitPrice   decimal.Decimal
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &partNumber, &description, &unit, &unitPrice, &createdAt, &updatedAt); err != nil {
		return item.Item{}, err
	}
	return item.Hydrate(id, partNumber, description, unit, unitPrice, createdAt, updatedAt), nil
}

func scanItems(rows pgx.Rows) ([]item.Item, error) {
	out := make([]item.Item, 0)
	for rows.Next() {
		itm, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, itm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog items: %w", err)
	}
	return out, nil
}
