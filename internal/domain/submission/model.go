package submission

import (
	"encoding/json"
	"time"
)

// Pending is one captured record awaiting commit to the remote store.
// The ID is generated client-side at capture time and doubles as the
// idempotency key presented to the server, which is what makes repeated
// submission attempts safe.
type Pending struct {
	ID             string          `json:"id"`
	FormID         string          `json:"form_id"`
	Payload        json.RawMessage `json:"payload"`
	CreatedAtLocal time.Time       `json:"created_at_local"`
	Synced         bool            `json:"synced"`
}

// Record is a submission as stored by the server.
type Record struct {
	ID          string          `json:"id"`
	FormID      string          `json:"form_id"`
	Payload     json.RawMessage `json:"payload"`
	SubmittedAt time.Time       `json:"submitted_at"`
	ReceivedAt  time.Time       `json:"received_at"`
}

// feature is the minimal shape every payload must have: a GeoJSON-style
// geometry plus a properties object. The engine otherwise treats the
// payload as opaque.
type feature struct {
	Geometry   *geometry       `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ValidatePayload checks that the payload parses as a geospatial feature.
// It is the only inspection the sync engine ever performs on the payload.
func ValidatePayload(payload json.RawMessage) error {
	if len(payload) == 0 {
		return ErrInvalidPayload
	}

	var f feature
	if err := json.Unmarshal(payload, &f); err != nil {
		return ErrInvalidPayload
	}

	if f.Geometry == nil || f.Geometry.Type == "" || len(f.Geometry.Coordinates) == 0 {
		return ErrInvalidPayload
	}

	return nil
}
