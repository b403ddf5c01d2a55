package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
	"github.com/almashriq/backoffice/modules/quotation/domain/aggregates/quotation"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/schema"
	"github.com/almashriq/backoffice/pkg/composables"
	"github.com/almashriq/backoffice/pkg/eventbus"
)

// inTxFn wraps the quotation insert in a transaction; tests stub it out.
var inTxFn = composables.InTx

// MappingValidationError is recoverable: the caller fixes the mapping and
// resubmits. The session stays in its previous stage.
type MappingValidationError struct {
	Problems []string
}

func (e *MappingValidationError) Error() string {
	return "invalid column mapping: " + strings.Join(e.Problems, "; ")
}

// ImportCommittedEvent is published after a successful Confirm.
type ImportCommittedEvent struct {
	SessionID   uuid.UUID
	QuotationID uuid.UUID
	Inserted    int
	Skipped     int
}

type AnalyzeResult struct {
	SessionID         uuid.UUID                  `json:"session_id"`
	ProposedMapping   importing.Mapping          `json:"proposed_mapping"`
	Confidence        map[string]float64         `json:"confidence"`
	UnmatchedRequired []string                   `json:"unmatched_required"`
	Warnings          []string                   `json:"warnings,omitempty"`
	DetectedColumns   []importing.DetectedColumn `json:"detected_columns"`
	Fields            []schema.Field             `json:"fields"`
}

type Summary struct {
	TotalRows         int     `json:"total_rows"`
	NewCount          int     `json:"new_count"`
	DuplicateCount    int     `json:"duplicate_count"`
	AmbiguousCount    int     `json:"ambiguous_count"`
	InvalidCount      int     `json:"invalid_count"`
	AverageConfidence float64 `json:"average_confidence"`
}

type PreviewResult struct {
	SessionID uuid.UUID                `json:"session_id"`
	Staged    []importing.StagedRecord `json:"staged"`
	Verdicts  []importing.Verdict      `json:"verdicts"`
	Summary   Summary                  `json:"summary"`
}

type RecordError struct {
	SourceRowIndex int    `json:"source_row_index"`
	Reason         string `json:"reason"`
}

type ConfirmResult struct {
	QuotationID     uuid.UUID     `json:"quotation_id,omitempty"`
	InsertedCount   int           `json:"inserted_count"`
	SkippedCount    int           `json:"skipped_count"`
	PerRecordErrors []RecordError `json:"per_record_errors,omitempty"`
}

type ImportServiceOptions struct {
	Items      item.Repository
	Quotations quotation.Repository
	Scorer     importing.Scorer
	Store      *SessionStore
	Publisher  eventbus.EventBus
	Logger     *logrus.Logger
	Transform  importing.TransformConfig
	Reconcile  importing.ReconcilerConfig
}

// ImportService orchestrates the Analyze → Map → Preview → Confirm workflow.
// Both the guided path and the auto path run through the same matcher,
// transformer, and reconciler; they differ only in whether the user edits
// the intermediate mapping.
type ImportService struct {
	items      item.Repository
	quotations quotation.Repository
	scorer     importing.Scorer
	store      *SessionStore
	publisher  eventbus.EventBus
	log        *logrus.Logger
	transform  importing.TransformConfig
	reconcile  importing.ReconcilerConfig
}

func NewImportService(opts ImportServiceOptions) *ImportService {
	return &ImportService{
		items:      opts.Items,
		quotations: opts.Quotations,
		scorer:     opts.Scorer,
		store:      opts.Store,
		publisher:  opts.Publisher,
		log:        opts.Logger,
		transform:  opts.Transform,
		reconcile:  opts.Reconcile,
	}
}

// Analyze runs the header matcher over an uploaded sheet and opens a session.
// Structural failures (no rows, no header) are terminal.
func (s *ImportService) Analyze(ctx context.Context, header []string, rows []importing.SheetRow) (*AnalyzeResult, error) {
	session, err := s.analyzeSession(header, rows)
	if err != nil {
		return nil, err
	}
	s.store.Put(session)

	match := session.Match()
	s.log.WithFields(logrus.Fields{
		"session_id": session.ID(),
		"rows":       len(rows),
		"unmatched":  match.UnmatchedRequired,
	}).Info("import sheet analyzed")

	return &AnalyzeResult{
		SessionID:         session.ID(),
		ProposedMapping:   match.Mapping,
		Confidence:        match.Confidence,
		UnmatchedRequired: match.UnmatchedRequired,
		Warnings:          match.Warnings,
		DetectedColumns:   session.Detected(),
		Fields:            schema.Fields(),
	}, nil
}

func (s *ImportService) analyzeSession(header []string, rows []importing.SheetRow) (*importing.Session, error) {
	session, err := importing.NewSession(header, rows)
	if err != nil {
		return nil, err
	}

	match := importing.MatchHeaders(session.Header())
	detected := importing.DetectColumns(session.Header(), session.Rows())
	if err := session.MarkAnalyzed(match, detected); err != nil {
		return nil, err
	}
	return session, nil
}

// MapAndPreview confirms a mapping and stages the whole batch. Idempotent:
// re-running with a different mapping discards the previous preview and never
// touches the catalog.
func (s *ImportService) MapAndPreview(ctx context.Context, sessionID uuid.UUID, mapping importing.Mapping) (*PreviewResult, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.preview(ctx, session, mapping)
}

// AutoImport analyzes, applies the proposed mapping without user confirmation,
// and previews in one call. The caller still confirms separately.
func (s *ImportService) AutoImport(ctx context.Context, header []string, rows []importing.SheetRow) (*PreviewResult, error) {
	session, err := s.analyzeSession(header, rows)
	if err != nil {
		return nil, err
	}
	s.store.Put(session)
	return s.preview(ctx, session, session.Match().Mapping)
}

func (s *ImportService) preview(ctx context.Context, session *importing.Session, mapping importing.Mapping) (*PreviewResult, error) {
	if problems := session.ApplyMapping(mapping); len(problems) > 0 {
		return nil, &MappingValidationError{Problems: problems}
	}

	staged := make([]importing.StagedRecord, 0, len(session.Rows()))
	for _, row := range session.Rows() {
		rec, ok := importing.Transform(row.Cells, row.Number, mapping, s.transform)
		if !ok {
			continue
		}
		staged = append(staged, rec)
	}

	catalogItems, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	reconciler := importing.NewReconciler(catalogItems, s.scorer, s.reconcile)

	verdicts := make([]importing.Verdict, 0, len(staged))
	for _, rec := range staged {
		verdict, err := reconciler.Reconcile(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("reconcile row %d: %w", rec.SourceRowIndex, err)
		}
		verdicts = append(verdicts, verdict)
	}

	if err := session.SetPreview(staged, verdicts); err != nil {
		return nil, err
	}

	return &PreviewResult{
		SessionID: session.ID(),
		Staged:    staged,
		Verdicts:  verdicts,
		Summary:   summarize(staged, verdicts),
	}, nil
}

func summarize(staged []importing.StagedRecord, verdicts []importing.Verdict) Summary {
	summary := Summary{TotalRows: len(staged)}
	total := 0.0
	for _, v := range verdicts {
		total += v.Confidence
		switch v.Classification {
		case importing.ClassificationNew:
			summary.NewCount++
		case importing.ClassificationDuplicate:
			summary.DuplicateCount++
		case importing.ClassificationAmbiguous:
			summary.AmbiguousCount++
		}
	}
	for _, rec := range staged {
		if !rec.Valid {
			summary.InvalidCount++
		}
	}
	if len(verdicts) > 0 {
		summary.AverageConfidence = total / float64(len(verdicts))
	}
	return summary
}

// Confirm commits the previewed batch: new records (and explicitly approved
// duplicate/ambiguous ones) become catalog items and quotation lines.
// It succeeds at most once per session; per-record failures never roll back
// committed siblings.
func (s *ImportService) Confirm(ctx context.Context, sessionID uuid.UUID, approvedRows []int) (*ConfirmResult, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.BeginConfirm(); err != nil {
		return nil, err
	}

	approved := make(map[int]bool, len(approvedRows))
	for _, idx := range approvedRows {
		approved[idx] = true
	}

	verdictByRow := make(map[int]importing.Verdict, len(session.Verdicts()))
	for _, v := range session.Verdicts() {
		verdictByRow[v.SourceRowIndex] = v
	}

	result := &ConfirmResult{}
	lines := make([]quotation.LineItem, 0, len(session.Staged()))
	var headerRec *importing.StagedRecord

	for _, rec := range session.Staged() {
		verdict := verdictByRow[rec.SourceRowIndex]

		if !rec.Valid {
			result.SkippedCount++
			result.PerRecordErrors = append(result.PerRecordErrors, RecordError{
				SourceRowIndex: rec.SourceRowIndex,
				Reason:         strings.Join(rec.Problems, "; "),
			})
			continue
		}

		switch verdict.Classification {
		case importing.ClassificationDuplicate:
			if !approved[rec.SourceRowIndex] {
				result.SkippedCount++
				continue
			}
			// duplicate override: quote the existing item, no catalog insert
			lines = append(lines, lineFromRecord(rec, verdict.MatchedItemID))
			result.InsertedCount++
			if headerRec == nil {
				r := rec
				headerRec = &r
			}
			continue
		case importing.ClassificationAmbiguous:
			if !approved[rec.SourceRowIndex] {
				result.SkippedCount++
				continue
			}
		}

		created, err := s.insertCatalogItem(ctx, rec)
		if err != nil {
			result.SkippedCount++
			result.PerRecordErrors = append(result.PerRecordErrors, RecordError{
				SourceRowIndex: rec.SourceRowIndex,
				Reason:         commitErrorReason(err),
			})
			continue
		}
		lines = append(lines, lineFromRecord(rec, created.ID()))
		result.InsertedCount++
		if headerRec == nil {
			r := rec
			headerRec = &r
		}
	}

	if len(lines) > 0 {
		// the quotation header comes from the first record that actually
		// made it into the batch, not from a skipped or invalid one
		q := quotation.New(headerRec.ClientName, headerRec.RequestNumber, headerRec.RequestDate, headerRec.DueDate, lines)
		err := inTxFn(ctx, func(txCtx context.Context) error {
			created, err := s.quotations.Create(txCtx, q)
			if err != nil {
				return err
			}
			result.QuotationID = created.ID()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("create quotation: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.ID(),
		"inserted":   result.InsertedCount,
		"skipped":    result.SkippedCount,
		"errors":     len(result.PerRecordErrors),
	}).Info("import confirmed")

	event := &ImportCommittedEvent{
		SessionID:   session.ID(),
		QuotationID: result.QuotationID,
		Inserted:    result.InsertedCount,
		Skipped:     result.SkippedCount,
	}
	if eb, ok := s.publisher.(eventbus.EventBusWithError); ok {
		if err := eb.PublishE(event); err != nil && !errors.Is(err, eventbus.ErrNoSubscribers) {
			s.log.WithError(err).Warn("import committed event handler failed")
		}
	} else {
		s.publisher.Publish(event)
	}

	return result, nil
}

// insertCatalogItem commits one record on its own so a failure cannot abort
// already-committed siblings. A single INSERT is atomic without an explicit
// transaction.
func (s *ImportService) insertCatalogItem(ctx context.Context, rec importing.StagedRecord) (item.Item, error) {
	return s.items.Create(ctx, item.New(rec.PartNumber, rec.Description, rec.Unit, rec.UnitPrice))
}

func lineFromRecord(rec importing.StagedRecord, catalogItemID uuid.UUID) quotation.LineItem {
	return quotation.LineItem{
		CatalogItemID:  catalogItemID,
		LineItemCode:   rec.LineItem,
		PartNumber:     rec.PartNumber,
		Description:    rec.Description,
		Unit:           rec.Unit,
		Quantity:       rec.Quantity,
		UnitPrice:      rec.UnitPrice,
		SourceRowIndex: rec.SourceRowIndex,
	}
}

func commitErrorReason(err error) string {
	if errors.Is(err, item.ErrPartNumberTaken) {
		return "part number already in catalog"
	}
	return err.Error()
}
