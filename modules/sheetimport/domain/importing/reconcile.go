package importing

import (
	"context"
	"sort"
	"strings"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
)

// Scorer ranks catalog items by similarity to a staged record's description
// and part number. Implementations may be local heuristics or a remote
// service; callers must not depend on which is active.
type Scorer interface {
	Score(ctx context.Context, description, partNumber string, items []item.Item) ([]Candidate, error)
}

// ReconcilerConfig carries the classification thresholds.
type ReconcilerConfig struct {
	// DuplicateCutoff is the minimum combined similarity for a fuzzy
	// duplicate when a part number is present.
	DuplicateCutoff float64
	// AmbiguousCutoff is the higher bar for description-only matches.
	AmbiguousCutoff float64
	// MaxCandidates caps the ranked matches surfaced for human review.
	MaxCandidates int
}

func (c ReconcilerConfig) maxCandidates() int {
	if c.MaxCandidates <= 0 || c.MaxCandidates > 10 {
		return 10
	}
	return c.MaxCandidates
}

// Reconciler classifies staged records against a catalog snapshot. It is a
// pure read + classify step and never writes to the catalog.
type Reconciler struct {
	items  []item.Item
	byPart map[string]item.Item
	scorer Scorer
	cfg    ReconcilerConfig
}

func NewReconciler(items []item.Item, scorer Scorer, cfg ReconcilerConfig) *Reconciler {
	byPart := make(map[string]item.Item, len(items))
	for _, itm := range items {
		if pn := itm.PartNumber(); pn != "" {
			if _, ok := byPart[pn]; !ok {
				byPart[pn] = itm
			}
		}
	}
	return &Reconciler{items: items, byPart: byPart, scorer: scorer, cfg: cfg}
}

// Reconcile classifies one staged record. Tiers are evaluated in order and
// the first hit wins: exact part number, combined fuzzy match, description-only
// match, then new.
func (r *Reconciler) Reconcile(ctx context.Context, rec StagedRecord) (Verdict, error) {
	verdict := Verdict{
		SourceRowIndex: rec.SourceRowIndex,
		Classification: ClassificationNew,
		Confidence:     1.0,
	}

	partNumber := strings.ToUpper(strings.TrimSpace(rec.PartNumber))

	if partNumber != "" {
		if matched, ok := r.byPart[partNumber]; ok {
			verdict.Classification = ClassificationDuplicate
			verdict.MatchedItemID = matched.ID()
			verdict.Confidence = 1.0
			return verdict, nil
		}
	}

	if strings.TrimSpace(rec.Description) == "" || len(r.items) == 0 {
		return verdict, nil
	}

	candidates, err := r.scorer.Score(ctx, rec.Description, partNumber, r.items)
	if err != nil {
		return Verdict{}, err
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if len(candidates) > r.cfg.maxCandidates() {
		candidates = candidates[:r.cfg.maxCandidates()]
	}
	if len(candidates) == 0 {
		return verdict, nil
	}

	if partNumber != "" {
		// an unrelated item may outscore the real duplicate on description
		// alone, so every candidate above the cutoff is checked for
		// part-number agreement, not just the best-ranked one
		for _, c := range candidates {
			if c.Similarity < r.cfg.DuplicateCutoff {
				break
			}
			if partNumberOverlaps(partNumber, c.PartNumber) {
				verdict.Classification = ClassificationDuplicate
				verdict.MatchedItemID = c.ItemID
				verdict.Confidence = c.Similarity
				verdict.Candidates = candidates
				return verdict, nil
			}
		}
		return verdict, nil
	}

	if top := candidates[0]; top.Similarity >= r.cfg.AmbiguousCutoff {
		verdict.Classification = ClassificationAmbiguous
		verdict.Confidence = top.Similarity
		verdict.Candidates = candidates
	}

	return verdict, nil
}

// partNumberOverlaps reports partial containment in either direction,
// tolerating supplier-specific prefixes and suffixes.
func partNumberOverlaps(a, b string) bool {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
