package form

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/form"
)

type Handler struct {
	service    form.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service form.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	result, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}

	return &listOutput{Body: result}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	def, err := h.service.Find(ctx, input.ID)
	if err != nil {
		if errors.Is(err, form.ErrNotFound) {
			return nil, huma.Error404NotFound("form not found")
		}
		return nil, err
	}

	return &findOutput{Body: *def}, nil
}
