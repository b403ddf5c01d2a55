package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/almashriq/backoffice/modules/quotation/domain/aggregates/quotation"
	"github.com/almashriq/backoffice/pkg/composables"
)

const (
	selectQuotationColumns = `id, client_name, request_number, request_date, due_date, status, created_at, updated_at`

	selectQuotationByIDSQL = `SELECT ` + selectQuotationColumns + ` FROM quotations WHERE id = $1`

	selectQuotationsPaginatedSQL = `
		SELECT ` + selectQuotationColumns + `
		FROM quotations
		WHERE ($1 = '' OR client_name ILIKE '%' || $1 || '%' OR request_number ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	countQuotationsSQL = `
		SELECT COUNT(*)
		FROM quotations
		WHERE ($1 = '' OR client_name ILIKE '%' || $1 || '%' OR request_number ILIKE '%' || $1 || '%')`

	insertQuotationSQL = `
		INSERT INTO quotations (client_name, request_number, request_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + selectQuotationColumns

	insertLineItemSQL = `
		INSERT INTO quotation_line_items
			(quotation_id, catalog_item_id, line_item_code, part_number, description, unit, quantity, unit_price, source_row_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	selectLineItemsSQL = `
		SELECT id, catalog_item_id, line_item_code, part_number, description, unit, quantity, unit_price, source_row_index
		FROM quotation_line_items
		WHERE quotation_id = $1
		ORDER BY source_row_index, line_item_code`
)

type QuotationRepository struct{}

func NewQuotationRepository() quotation.Repository {
	return &QuotationRepository{}
}

func (r *QuotationRepository) GetPaginated(ctx context.Context, params *quotation.FindParams) ([]quotation.Quotation, int64, error) {
	if params == nil {
		params = &quotation.FindParams{}
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

	rows, err := tx.Query(ctx, selectQuotationsPaginatedSQL, q, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	out := make([]quotation.Quotation, 0)
	for rows.Next() {
		qt, err := scanQuotation(rows, nil)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, qt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan quotations: %w", err)
	}

	var total int64
	if err := tx.QueryRow(ctx, countQuotationsSQL, q).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}

	return out, total, nil
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (quotation.Quotation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return quotation.Quotation{}, err
	}

	lines, err := r.lineItems(ctx, id)
	if err != nil {
		return quotation.Quotation{}, err
	}

	qt, err := scanQuotation(tx.QueryRow(ctx, selectQuotationByIDSQL, id), lines)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quotation.Quotation{}, quotation.ErrNotFound
		}
		return quotation.Quotation{}, err
	}
	return qt, nil
}

// Create inserts the quotation and its line items in the caller's transaction.
func (r *QuotationRepository) Create(ctx context.Context, q quotation.Quotation) (quotation.Quotation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return quotation.Quotation{}, err
	}

	created, err := scanQuotation(tx.QueryRow(
		ctx,
		insertQuotationSQL,
		q.ClientName(),
		q.RequestNumber(),
		q.RequestDate(),
		q.DueDate(),
		string(q.Status()),
	), nil)
	if err != nil {
		return quotation.Quotation{}, fmt.Errorf("create quotation: %w", err)
	}

	lines := make([]quotation.LineItem, 0, len(q.LineItems()))
	for _, line := range q.LineItems() {
		var lineID uuid.UUID
		var catalogItemID any
		if line.CatalogItemID != uuid.Nil {
			catalogItemID = line.CatalogItemID
		}
		err := tx.QueryRow(
			ctx,
			insertLineItemSQL,
			created.ID(),
			catalogItemID,
			line.LineItemCode,
			line.PartNumber,
			line.Description,
			line.Unit,
			line.Quantity,
			line.UnitPrice,
			line.SourceRowIndex,
		).Scan(&lineID)
		if err != nil {
			return quotation.Quotation{}, fmt.Errorf("create quotation line %d: %w", line.SourceRowIndex, err)
		}
		line.ID = lineID
		lines = append(lines, line)
	}

	return quotation.Hydrate(
		created.ID(),
		created.ClientName(),
		created.RequestNumber(),
		created.RequestDate(),
		created.DueDate(),
		created.Status(),
		lines,
		created.CreatedAt(),
		created.UpdatedAt(),
	), nil
}

func (r *QuotationRepository) lineItems(ctx context.Context, quotationID uuid.UUID) ([]quotation.LineItem, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectLineItemsSQL, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list quotation lines: %w", err)
	}
	defer rows.Close()

	lines := make([]quotation.LineItem, 0)
	for rows.Next() {
		var (
			line          quotation.LineItem
			catalogItemID *uuid.UUID
		)
		err := rows.Scan(
			&line.ID,
			&catalogItemID,
			&line.LineItemCode,
			&line.PartNumber,
			&line.Description,
			&line.Unit,
			&line.Quantity,
			&line.UnitPrice,
			&line.SourceRowIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quotation line: %w", err)
		}
		if catalogItemID != nil {
			line.CatalogItemID = *catalogItemID
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan quotation lines: %w", err)
	}
	return lines, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuotation(row rowScanner, lines []quotation.LineItem) (quotation.Quotation, error) {
	var (
		id            uuid.UUID
		clientName    string
		requestNumber string
		requestDate   string
		dueDate       string
		status        string
		createdAt     time.Time
		updatedAt     time.Time
	)
	if err := row.Scan(&id, &clientName, &requestNumber, &requestDate, &dueDate, &status, &createdAt, &updatedAt); err != nil {
		return quotation.Quotation{}, err
	}
	return quotation.Hydrate(
		id,
		clientName,
		requestNumber,
		requestDate,
		dueDate,
		quotation.Status(status),
		lines,
		createdAt,
		updatedAt,
	), nil
}
