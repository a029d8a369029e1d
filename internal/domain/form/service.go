package form

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context) (ListResponse, error)
	Find(ctx context.Context, id string) (*Definition, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "form_service"),
	}
}

func (s *Service) List(ctx context.Context) (ListResponse, error) {
	forms, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list forms", "error", err)
		return ListResponse{}, fmt.Errorf("list forms: %w", err)
	}

	return ListResponse{Forms: forms}, nil
}

func (s *Service) Find(ctx context.Context, id string) (*Definition, error) {
	def, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find form: %w", err)
	}
	return def, nil
}
