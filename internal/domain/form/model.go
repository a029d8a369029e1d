package form

import (
	"encoding/json"
	"time"
)

// Definition is a schema the client captures submissions against. The
// client caches definitions locally so forms stay usable offline.
type Definition struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Schema    json.RawMessage `json:"schema"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ListResponse struct {
	Forms []Definition `json:"forms"`
}
