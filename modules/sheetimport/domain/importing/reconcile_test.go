package importing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
)

type stubScorer struct {
	candidates []importing.Candidate
	err        error
	calls      int
}

func (s *stubScorer) Score(_ context.Context, _, _ string, _ []item.Item) ([]importing.Candidate, error) {
	s.calls++
	return s.candidates, s.err
}

func catalogItem(id uuid.UUID, partNumber, description string) item.Item {
	return item.Hydrate(id, partNumber, description, "pcs", decimal.Zero, time.Time{}, time.Time{})
}

var reconcilerCfg = importing.ReconcilerConfig{
	DuplicateCutoff: 0.72,
	AmbiguousCutoff: 0.85,
	MaxCandidates:   10,
}

func TestReconcile_ExactPartNumber(t *testing.T) {
	id := uuid.New()
	items := []item.Item{catalogItem(id, "WP-2HP-220V", "Water pump 2HP 220V")}
	scorer := &stubScorer{}
	r := importing.NewReconciler(items, scorer, reconcilerCfg)

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		SourceRowIndex: 2,
		PartNumber:     "wp-2hp-220v",
		Description:    "pump",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationDuplicate, verdict.Classification)
	assert.Equal(t, id, verdict.MatchedItemID)
	assert.Equal(t, 1.0, verdict.Confidence)
	assert.Zero(t, scorer.calls, "exact hits never reach the scorer")
}

func TestReconcile_FuzzyDuplicateWithPartOverlap(t *testing.T) {
	id := uuid.New()
	items := []item.Item{catalogItem(id, "WP-2HP-220V-EU", "Water pump 2 HP 220 volt")}
	scorer := &stubScorer{candidates: []importing.Candidate{
		{ItemID: id, PartNumber: "WP-2HP-220V-EU", Similarity: 0.81},
	}}
	r := importing.NewReconciler(items, scorer, reconcilerCfg)

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		PartNumber:  "WP-2HP-220V",
		Description: "Water pump 2HP 220V",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationDuplicate, verdict.Classification)
	assert.Equal(t, id, verdict.MatchedItemID)
	assert.Equal(t, 0.81, verdict.Confidence)
}

func TestReconcile_DuplicateOutscoredByUnrelatedItem(t *testing.T) {
	unrelated, duplicate := uuid.New(), uuid.New()
	items := []item.Item{
		catalogItem(unrelated, "ZZ-99", "Gate valve assembly 50mm complete"),
		catalogItem(duplicate, "GV-50MM", "Gate valve 50mm"),
	}
	scorer := &stubScorer{candidates: []importing.Candidate{
		{ItemID: unrelated, PartNumber: "ZZ-99", Similarity: 0.95},
		{ItemID: duplicate, PartNumber: "GV-50MM", Similarity: 0.90},
	}}
	r := importing.NewReconciler(items, scorer, reconcilerCfg)

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		PartNumber:  "GV-50MM-X",
		Description: "Gate valve 50mm",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationDuplicate, verdict.Classification,
		"part-number agreement wins even when another item ranks higher on description")
	assert.Equal(t, duplicate, verdict.MatchedItemID)
	assert.Equal(t, 0.90, verdict.Confidence)
}

func TestReconcile_PartNumberWithoutOverlapStaysNew(t *testing.T) {
	id := uuid.New()
	items := []item.Item{catalogItem(id, "GV-50MM", "Gate valve 50mm")}
	scorer := &stubScorer{candidates: []importing.Candidate{
		{ItemID: id, PartNumber: "GV-50MM", Similarity: 0.95},
	}}
	r := importing.NewReconciler(items, scorer, reconcilerCfg)

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		PartNumber:  "XX-9000",
		Description: "Gate valve 50mm",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationNew, verdict.Classification)
	assert.Equal(t, 1.0, verdict.Confidence)
}

func TestReconcile_DescriptionOnlyAmbiguous(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	items := []item.Item{
		catalogItem(first, "BRG-6204", "Ball bearing 6204"),
		catalogItem(second, "BRG-6205", "Ball bearing 6205"),
	}
	scorer := &stubScorer{candidates: []importing.Candidate{
		{ItemID: second, PartNumber: "BRG-6205", Similarity: 0.86},
		{ItemID: first, PartNumber: "BRG-6204", Similarity: 0.91},
	}}
	r := importing.NewReconciler(items, scorer, reconcilerCfg)

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		Description: "Ball bearing 6204",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationAmbiguous, verdict.Classification)
	assert.Equal(t, uuid.Nil, verdict.MatchedItemID, "ambiguous verdicts never pick a winner")
	assert.Equal(t, 0.91, verdict.Confidence)
	require.Len(t, verdict.Candidates, 2)
	assert.Equal(t, first, verdict.Candidates[0].ItemID, "candidates ranked by similarity")
}

func TestReconcile_DescriptionBelowCutoffIsNew(t *testing.T) {
	id := uuid.New()
	items := []item.Item{catalogItem(id, "BRG-6204", "Ball bearing 6204")}
	scorer := &stubScorer{candidates: []importing.Candidate{
		{ItemID: id, PartNumber: "BRG-6204", Similarity: 0.70},
	}}
	r := importing.NewReconciler(items, scorer, reconcilerCfg)

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		Description: "Grease gun",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationNew, verdict.Classification)
	assert.Empty(t, verdict.Candidates)
}

func TestReconcile_EmptyCatalogIsNew(t *testing.T) {
	scorer := &stubScorer{}
	r := importing.NewReconciler(nil, scorer, reconcilerCfg)

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		Description: "Anything at all",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationNew, verdict.Classification)
	assert.Zero(t, scorer.calls)
}

func TestReconcile_CandidatesCapped(t *testing.T) {
	items := make([]item.Item, 0, 15)
	candidates := make([]importing.Candidate, 0, 15)
	for i := 0; i < 15; i++ {
		id := uuid.New()
		pn := fmt.Sprintf("BRG-%02d", i)
		items = append(items, catalogItem(id, pn, "Ball bearing"))
		candidates = append(candidates, importing.Candidate{
			ItemID: id, PartNumber: pn, Similarity: 0.90,
		})
	}
	scorer := &stubScorer{candidates: candidates}
	r := importing.NewReconciler(items, scorer, importing.ReconcilerConfig{
		DuplicateCutoff: 0.72,
		AmbiguousCutoff: 0.85,
		MaxCandidates:   50, // above the hard cap
	})

	verdict, err := r.Reconcile(context.Background(), importing.StagedRecord{
		Description: "Ball bearing",
	})

	require.NoError(t, err)
	assert.Equal(t, importing.ClassificationAmbiguous, verdict.Classification)
	assert.Len(t, verdict.Candidates, 10)
}
