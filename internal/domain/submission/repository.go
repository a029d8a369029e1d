package submission

import (
	"context"
)

// Repository is the server-side store for committed submissions.
type Repository interface {
	// Create inserts the record keyed by its client-generated ID.
	// Returns false if a record with the same ID already exists; the
	// insert must be atomic with the existence check so that two
	// concurrent deliveries of the same ID cannot both report created.
	Create(ctx context.Context, rec *Record) (bool, error)

	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, formID string, limit, offset int) ([]Record, error)
	Count(ctx context.Context, formID string) (int, error)
}
