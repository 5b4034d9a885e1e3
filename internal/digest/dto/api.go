package dto

// ErrorResponse is the JSON error body of the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TriggerRunRequest is the body of POST /digests/runs.
type TriggerRunRequest struct {
	DryRun bool `json:"dry_run"`
}

// TriggerRunResponse is returned when a run has been accepted.
type TriggerRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// RunListResponse wraps a page of run summaries.
type RunListResponse struct {
	Runs []RunSummary `json:"runs"`
}
