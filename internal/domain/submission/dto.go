package submission

import (
	"encoding/json"
	"time"
)

// CommitRequest is one record presented for idempotent commit.
type CommitRequest struct {
	ID          string          `json:"id"`
	FormID      string          `json:"form_id"`
	Payload     json.RawMessage `json:"payload"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// CommitResponse reports the stored record back to the client.
type CommitResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

// ListResponse wraps a page of stored submissions.
type ListResponse struct {
	Submissions []Record `json:"submissions"`
	Total       int      `json:"total"`
}
