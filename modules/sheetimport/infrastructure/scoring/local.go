package scoring

import (
	"context"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
)

// Local scores descriptions in-process with token overlap blended with a
// normalized edit-distance ratio. No network, deterministic, cheap.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Score(_ context.Context, description, partNumber string, items []item.Item) ([]importing.Candidate, error) {
	desc := normalize(description)
	if desc == "" {
		return nil, nil
	}

	candidates := make([]importing.Candidate, 0, len(items))
	for _, itm := range items {
		similarity := Similarity(desc, normalize(itm.Description()))
		if partNumber != "" && itm.PartNumber() != "" {
			if strings.Contains(itm.PartNumber(), partNumber) || strings.Contains(partNumber, itm.PartNumber()) {
				// partial part-number agreement reinforces a weak description match
				similarity = maxFloat(similarity, 0.6+similarity*0.4)
			}
		}
		if similarity <= 0 {
			continue
		}
		candidates = append(candidates, importing.Candidate{
			ItemID:     itm.ID(),
			PartNumber: itm.PartNumber(),
			Similarity: similarity,
		})
	}
	return candidates, nil
}

// Similarity blends Jaccard token overlap with a Levenshtein ratio and
// returns the stronger of the two signals, in 0..1.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	overlap := tokenOverlap(a, b)

	distance := fuzzy.LevenshteinDistance(a, b)
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	ratio := 1 - float64(distance)/float64(longest)

	return maxFloat(overlap, ratio)
}

func tokenOverlap(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	shared := 0
	for tok := range as {
		if bs[tok] {
			shared++
		}
	}
	union := len(as) + len(bs) - shared
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
