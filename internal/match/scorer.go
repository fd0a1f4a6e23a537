package match

import (
	"regexp"
	"strings"

	"github.com/wyzinc/marketsync/internal/model"
)

// Scorer rates marketplace catalog candidates against a supplier
// record using brand and title similarity
type Scorer struct {
	similarityWeight float64
	overlapWeight    float64
	brandBonus       float64
}

// NewScorer creates a scorer with the production weights
func NewScorer() *Scorer {
	return &Scorer{
		similarityWeight: 0.6,
		overlapWeight:    0.3,
		brandBonus:       0.2,
	}
}

var tokenPattern = regexp.MustCompile(`\w+`)

// Score computes a [0,1] match score for one candidate
func (s *Scorer) Score(supplierBrand, supplierTitle string, cand model.CatalogCandidate) float64 {
	a := normalizeTitle(supplierTitle)
	b := normalizeTitle(cand.Title)

	score := s.similarityWeight * sequenceRatio(a, b)
	score += s.overlapWeight * tokenOverlap(a, b)
	if cand.BrandMatches(supplierBrand) {
		score += s.brandBonus
	}

	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// ScoreAll scores every candidate and returns them ordered by score
// descending, ties preserving input order
func (s *Scorer) ScoreAll(supplierBrand, supplierTitle string, cands []model.CatalogCandidate) []model.ScoredCandidate {
	scored := make([]model.ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		scored = append(scored, model.ScoredCandidate{
			PID:   c.PID,
			Title: c.Title,
			Brand: c.Brand,
			Score: s.Score(supplierBrand, supplierTitle, c),
		})
	}
	// insertion sort keeps the ordering stable for equal scores
	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].Score > scored[j-1].Score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}
	return scored
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenOverlap is the shared-token count over the larger token set
func tokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared++
		}
	}
	larger := len(ta)
	if len(tb) > larger {
		larger = len(tb)
	}
	return float64(shared) / float64(larger)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(s, -1) {
		set[tok] = struct{}{}
	}
	return set
}

// sequenceRatio is the matching-blocks similarity ratio: twice the
// total length of common blocks over the combined length
func sequenceRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	ra := []rune(a)
	rb := []rune(b)
	matched := matchingBlocks(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingBlocks sums common block lengths by recursing around the
// longest common substring
func matchingBlocks(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// lengths[j] holds the run length ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}
	return ai, bi, size
}
