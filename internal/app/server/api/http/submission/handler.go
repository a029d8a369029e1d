package submission

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/submission"
)

type Handler struct {
	service    submission.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service submission.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.commitOp(), h.commit)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) commit(ctx context.Context, input *commitInput) (*commitOutput, error) {
	if input.Body.ID != "" && input.Body.ID != input.ID {
		return nil, huma.Error422UnprocessableEntity("body id does not match path id")
	}

	rec, err := h.service.Commit(ctx, submission.CommitRequest{
		ID:          input.ID,
		FormID:      input.Body.FormID,
		Payload:     input.Body.Payload,
		SubmittedAt: input.Body.SubmittedAt,
	})

	if err != nil {
		switch {
		case errors.Is(err, submission.ErrAlreadyExists):
			// The idempotency contract: duplicates are conflicts, never
			// second copies.
			return nil, huma.Error409Conflict("submission already committed")
		case errors.Is(err, submission.ErrInvalidID),
			errors.Is(err, submission.ErrUnknownForm),
			errors.Is(err, submission.ErrInvalidPayload):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		default:
			return nil, err
		}
	}

	return &commitOutput{
		Body: commitResponse{
			ID:         rec.ID,
			Status:     "Committed",
			ReceivedAt: rec.ReceivedAt,
		},
	}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	rec, err := h.service.Find(ctx, input.ID)
	if err != nil {
		if errors.Is(err, submission.ErrNotFound) {
			return nil, huma.Error404NotFound("submission not found")
		}
		return nil, err
	}

	return &findOutput{Body: *rec}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	result, err := h.service.List(ctx, input.FormID, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return &listOutput{Body: result}, nil
}
