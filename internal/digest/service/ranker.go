package service

import (
	"sort"

	"ipo-hype-tracker/internal/digest/dto"
)

// Rank orders candidates by descending hype score, keeping input order on ties, and returns the top N
// with 1-based ranks. topN <= 0 keeps every candidate. The input slice is not modified.
func Rank(candidates []dto.RankedCandidate, topN int) []dto.RankedCandidate {
	sorted := make([]dto.RankedCandidate, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].HypeScore() > sorted[j].HypeScore()
	})

	if topN > 0 && len(sorted) > topN {
		sorted = sorted[:topN]
	}
	for i := range sorted {
		sorted[i].Rank = i + 1
	}
	return sorted
}
