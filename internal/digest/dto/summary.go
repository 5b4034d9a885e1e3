package dto

import "time"

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// RunRequest starts a digest run.
type RunRequest struct {
	RunID   string `json:"run_id,omitempty"`
	Trigger string `json:"trigger,omitempty"`
	DryRun  bool   `json:"dry_run"`
}

// RunSummary is the operator-facing result of one pipeline run.
type RunSummary struct {
	RunID      string     `json:"run_id"`
	Trigger    string     `json:"trigger"`
	Status     string     `json:"status"`
	DryRun     bool       `json:"dry_run"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`

	CandidatesReceived  int `json:"candidates_received"`
	CandidatesBounded   int `json:"candidates_bounded"`
	CandidatesSkipped   int `json:"candidates_skipped"`
	CandidatesProcessed int `json:"candidates_processed"`
	CandidatesExcluded  int `json:"candidates_excluded"`
	CandidatesRanked    int `json:"candidates_ranked"`

	Top []RankedCandidate `json:"top"`

	RecipientsAttempted int      `json:"recipients_attempted"`
	RecipientsSucceeded int      `json:"recipients_succeeded"`
	RecipientsFailed    int      `json:"recipients_failed"`
	FailedRecipients    []string `json:"failed_recipients,omitempty"`
	BatchesSucceeded    int      `json:"batches_succeeded"`
	BatchesFailed       int      `json:"batches_failed"`
}

// ApplyDispatch copies dispatch totals onto the summary.
func (s *RunSummary) ApplyDispatch(r DispatchResult) {
	s.RecipientsAttempted = r.Attempted()
	s.RecipientsSucceeded = r.TotalSent
	s.RecipientsFailed = r.TotalFailed
	s.FailedRecipients = r.FailedRecipients()
	s.BatchesSucceeded = len(r.Successful)
	s.BatchesFailed = len(r.Failed)
}

// Tickers returns the ranked tickers in rank order.
func (s *RunSummary) Tickers() []string {
	out := make([]string, 0, len(s.Top))
	for _, r := range s.Top {
		out = append(out, r.Candidate.Ticker)
	}
	return out
}
