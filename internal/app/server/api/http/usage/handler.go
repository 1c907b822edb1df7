package usage

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fleetlog/internal/domain/usage"
)

type Handler struct {
	service    usage.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service usage.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.updateOp(), h.update)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	rows, err := h.service.List(ctx, input.Serial)
	if err != nil {
		return nil, mapError(err)
	}

	// An aircraft with no rows yet answers an empty array, not null.
	if rows == nil {
		rows = []usage.Row{}
	}
	return &listOutput{Body: rows}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*rowOutput, error) {
	row, err := h.service.Create(ctx, input.Serial, input.Body)
	if err != nil {
		return nil, mapError(err)
	}
	return &rowOutput{Status: 201, Body: row}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*rowOutput, error) {
	row, err := h.service.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, mapError(err)
	}
	return &rowOutput{Status: 200, Body: row}, nil
}

// mapError translates domain errors into HTTP problem responses. The message
// text travels verbatim: the client surfaces it per row in commit reports.
func mapError(err error) error {
	switch {
	case errors.Is(err, usage.ErrStaleWrite):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, usage.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, usage.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
