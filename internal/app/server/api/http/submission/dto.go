package submission

import (
	"encoding/json"
	"time"

	"fieldsync/internal/domain/submission"
)

type commitInput struct {
	ID   string `path:"id" example:"1f4c3f2a-9d1e-4a3b-8c5d-2e6f7a8b9c0d" doc:"Client-generated submission ID, used as the idempotency key"`
	Body commitRequest
}

type commitRequest struct {
	ID          string          `json:"id,omitempty" doc:"Client-generated submission ID, must match the path when set"`
	FormID      string          `json:"form_id" minLength:"1" doc:"Form the submission was captured against"`
	Payload     json.RawMessage `json:"payload" doc:"Geospatial feature payload"`
	SubmittedAt time.Time       `json:"submitted_at" doc:"Capture time on the client device"`
}

type commitOutput struct {
	Body commitResponse
}

type commitResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

type findInput struct {
	ID string `path:"id" doc:"Submission ID"`
}

type findOutput struct {
	Body submission.Record
}

type listInput struct {
	FormID string `query:"form_id" doc:"Restrict to one form"`
	Limit  int    `query:"limit" doc:"Page size, defaults to 100"`
	Offset int    `query:"offset" doc:"Page offset"`
}

type listOutput struct {
	Body submission.ListResponse
}
