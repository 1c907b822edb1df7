package usage

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fleetlog/internal/domain/usage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, serial string) ([]usage.Row, error) {
	args := m.Called(ctx, serial)
	rows, _ := args.Get(0).([]usage.Row)
	return rows, args.Error(1)
}

func (m *MockService) Create(ctx context.Context, serial string, d usage.Draft) (usage.Row, error) {
	args := m.Called(ctx, serial, d)
	return args.Get(0).(usage.Row), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int64, p usage.Patch) (usage.Row, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(usage.Row), args.Error(1)
}

func newTestHandler(service usage.Servicer) *Handler {
	return NewHandler(service, slog.Default(), huma.Middlewares{})
}

func TestListAnswersEmptyArrayNotNull(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, "LV-100").Return(nil, nil)

	out, err := newTestHandler(svc).list(context.Background(), &listInput{Serial: "LV-100"})
	require.NoError(t, err)
	require.NotNil(t, out.Body)
	assert.Empty(t, out.Body)
}

func TestCreateAnswers201WithRow(t *testing.T) {
	draft := usage.Draft{Date: "2024-01-01", TechlogNo: "A", BlockHours: 2}
	svc := new(MockService)
	svc.On("Create", mock.Anything, "LV-100", draft).Return(usage.Row{ID: 5, Date: "2024-01-01"}, nil)

	out, err := newTestHandler(svc).create(context.Background(), &createInput{Serial: "LV-100", Body: draft})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, out.Status)
	assert.Equal(t, int64(5), out.Body.ID)
}

func TestUpdateConflictAnswers409(t *testing.T) {
	svc := new(MockService)
	svc.On("Update", mock.Anything, int64(7), mock.Anything).
		Return(usage.Row{}, fmt.Errorf("%w: row 7 was edited by another user", usage.ErrStaleWrite))

	_, err := newTestHandler(svc).update(context.Background(), &updateInput{ID: 7})
	require.Error(t, err)

	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.GetStatus())
	assert.Contains(t, err.Error(), "edited by another user")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"stale write", usage.ErrStaleWrite, http.StatusConflict},
		{"not found", usage.ErrNotFound, http.StatusNotFound},
		{"validation", usage.ErrValidation, http.StatusUnprocessableEntity},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var statusErr huma.StatusError
			require.ErrorAs(t, mapError(tc.err), &statusErr)
			assert.Equal(t, tc.want, statusErr.GetStatus())
		})
	}
}
