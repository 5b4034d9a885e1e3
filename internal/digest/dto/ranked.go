package dto

// RankedCandidate is a candidate merged with its signals. Rank is 1-based once ranked.
type RankedCandidate struct {
	Rank       int          `json:"rank,omitempty"`
	Candidate  Candidate    `json:"candidate"`
	Signals    SignalBundle `json:"signals"`
	InputIndex int          `json:"-"`
}

// HypeScore is the ranking key.
func (r RankedCandidate) HypeScore() float64 {
	return r.Signals.HypeScore
}

// EnrichStats counts what happened to a chunk of candidates during enrichment.
type EnrichStats struct {
	Processed int `json:"processed"`
	Excluded  int `json:"excluded"`
	Skipped   int `json:"skipped"`
}

// Add accumulates other into s.
func (s *EnrichStats) Add(other EnrichStats) {
	s.Processed += other.Processed
	s.Excluded += other.Excluded
	s.Skipped += other.Skipped
}
