package dto

import "encoding/json"

// CompaniesRequest is the batch request body every signal provider accepts.
type CompaniesRequest struct {
	Companies []string `json:"companies"`
}

// ProviderEnvelope is the common {success, data, error} response wrapper.
// The synthesis endpoint answers under hype_score instead of data.
type ProviderEnvelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	HypeScore json.RawMessage `json:"hype_score,omitempty"`
	Error     string          `json:"error,omitempty"`
	RowCount  int             `json:"row_count,omitempty"`
}

// Payload returns whichever body field is populated.
func (e ProviderEnvelope) Payload() json.RawMessage {
	if len(e.Data) > 0 && string(e.Data) != "null" {
		return e.Data
	}
	return e.HypeScore
}
