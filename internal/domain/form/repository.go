package form

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]Definition, error)
	Get(ctx context.Context, id string) (*Definition, error)
	Exists(ctx context.Context, id string) (bool, error)
}
