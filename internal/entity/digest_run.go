package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// DigestRun is the persisted history of one pipeline run.
type DigestRun struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	RunID               string         `gorm:"uniqueIndex;not null" json:"run_id"`
	Trigger             string         `gorm:"not null" json:"trigger"`
	Status              string         `gorm:"not null;index" json:"status"`
	DryRun              bool           `gorm:"not null;default:false" json:"dry_run"`
	CandidatesReceived  int            `json:"candidates_received"`
	CandidatesProcessed int            `json:"candidates_processed"`
	CandidatesExcluded  int            `json:"candidates_excluded"`
	CandidatesRanked    int            `json:"candidates_ranked"`
	RecipientsSucceeded int            `json:"recipients_succeeded"`
	RecipientsFailed    int            `json:"recipients_failed"`
	RankedTickers       pq.StringArray `gorm:"type:text[]" json:"ranked_tickers"`
	FailedRecipients    pq.StringArray `gorm:"type:text[]" json:"failed_recipients"`
	Summary             datatypes.JSON `gorm:"type:jsonb" json:"summary"`
	ErrorMessage        string         `json:"error_message,omitempty"`
	StartedAt           time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt          *time.Time     `json:"finished_at,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
