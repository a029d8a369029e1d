package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// FormChecker answers whether a form is known to the server. Satisfied by
// the form repository.
type FormChecker interface {
	Exists(ctx context.Context, formID string) (bool, error)
}

type Servicer interface {
	// Commit idempotently stores one record. A repeated delivery of the
	// same ID returns ErrAlreadyExists so the transport can answer with a
	// conflict status rather than creating a duplicate.
	Commit(ctx context.Context, req CommitRequest) (*Record, error)

	Find(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, formID string, limit, offset int) (ListResponse, error)
}

// Service implements the server-side commit logic.
type Service struct {
	repo  Repository
	forms FormChecker
	log   *slog.Logger
}

func NewService(repo Repository, forms FormChecker, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		forms: forms,
		log:   log.With("component", "submission_service"),
	}
}

func (s *Service) Commit(ctx context.Context, req CommitRequest) (*Record, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:          req.ID,
		FormID:      req.FormID,
		Payload:     req.Payload,
		SubmittedAt: req.SubmittedAt,
		ReceivedAt:  time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.log.Error("failed to store submission", "id", req.ID, "error", err)
		return nil, fmt.Errorf("store submission: %w", err)
	}

	if !created {
		// A prior delivery of the same idempotency key won the insert.
		s.log.Debug("duplicate submission", "id", req.ID)
		return nil, ErrAlreadyExists
	}

	s.log.Info("submission committed", "id", rec.ID, "form_id", rec.FormID)
	return rec, nil
}

func (s *Service) validate(ctx context.Context, req CommitRequest) error {
	if _, err := uuid.Parse(req.ID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, req.ID)
	}

	if req.FormID == "" {
		return ErrUnknownForm
	}

	known, err := s.forms.Exists(ctx, req.FormID)
	if err != nil {
		return fmt.Errorf("check form: %w", err)
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownForm, req.FormID)
	}

	if err := ValidatePayload(req.Payload); err != nil {
		return err
	}

	return nil
}

func (s *Service) Find(ctx context.Context, id string) (*Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, formID string, limit, offset int) (ListResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	records, err := s.repo.List(ctx, formID, limit, offset)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list submissions: %w", err)
	}

	total, err := s.repo.Count(ctx, formID)
	if err != nil {
		return ListResponse{}, fmt.Errorf("count submissions: %w", err)
	}

	return ListResponse{
		Submissions: records,
		Total:       total,
	}, nil
}
