package submission

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) commitOp() huma.Operation {
	return huma.Operation{
		OperationID:   "submissions-commit",
		Method:        http.MethodPut,
		Path:          "/api/v1/submissions/{id}",
		Summary:       "Commit a submission",
		Description:   "Idempotently stores one captured submission under its client-generated ID. Repeated deliveries of the same ID answer 409, which clients treat as a successful commit.",
		Tags:          []string{"submissions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "submissions-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/submissions/{id}",
		Summary:     "Get a submission",
		Tags:        []string{"submissions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "submissions-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/submissions",
		Summary:     "List stored submissions",
		Tags:        []string{"submissions"},
		Middlewares: h.middleware,
	}
}
