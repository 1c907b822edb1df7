package usage

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "usage-list",
		Method:      http.MethodGet,
		Path:        "/aircraft/{serial}/usage",
		Summary:     "List usage rows for an aircraft",
		Description: "Returns every utilisation log row for the serial, date-ordered, with cumulative totals and to-next-check figures.",
		Tags:        []string{"usage"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "usage-create",
		Method:      http.MethodPost,
		Path:        "/aircraft/{serial}/usage",
		Summary:     "Create a usage row",
		Tags:        []string{"usage"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "usage-update",
		Method:      http.MethodPut,
		Path:        "/aircraft/usage/{id}",
		Summary:     "Update a usage row",
		Description: "Writes the client-editable fields. The body carries the last-seen updated_at; a newer concurrent write answers 409.",
		Tags:        []string{"usage"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
