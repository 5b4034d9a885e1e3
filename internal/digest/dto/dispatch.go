package dto

// DigestMessage is the rendered digest handed to the dispatcher.
type DigestMessage struct {
	Subject string
	HTML    string
}

// BatchSuccess records one delivered batch.
type BatchSuccess struct {
	BatchIndex     int    `json:"batch_index"`
	RecipientCount int    `json:"recipient_count"`
	MessageID      string `json:"message_id"`
}

// BatchFailure records one failed batch with the exact recipients it carried.
type BatchFailure struct {
	BatchIndex   int      `json:"batch_index"`
	Recipients   []string `json:"recipients"`
	ErrorMessage string   `json:"error_message"`
}

// DispatchResult aggregates every batch outcome of a bulk send.
type DispatchResult struct {
	Successful  []BatchSuccess `json:"successful"`
	Failed      []BatchFailure `json:"failed"`
	TotalSent   int            `json:"total_sent"`
	TotalFailed int            `json:"total_failed"`
}

// FailedRecipients flattens the recipients of every failed batch, in batch order.
func (r DispatchResult) FailedRecipients() []string {
	var out []string
	for _, f := range r.Failed {
		out = append(out, f.Recipients...)
	}
	return out
}

// Attempted is the number of recipients covered by any batch.
func (r DispatchResult) Attempted() int {
	return r.TotalSent + r.TotalFailed
}
