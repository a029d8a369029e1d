package form

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "forms-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/forms",
		Summary:     "List form definitions",
		Description: "Returns every form definition. Clients cache them locally so capture keeps working offline.",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "forms-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/forms/{id}",
		Summary:     "Get a form definition",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}
