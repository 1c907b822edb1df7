package sqlite

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fleetlog/internal/app/server/config"
	"fleetlog/internal/domain/usage"
)

func newTestRepo(t *testing.T) *UsageRepository {
	t.Helper()
	cfg := &config.Config{
		DB: struct {
			Path string `env:"DATABASE_PATH"`
		}{Path: filepath.Join(t.TempDir(), "stub.db")},
	}
	storage, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUsageRepository(storage, log)
}

func TestCreateAssignsIDAndToken(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	row, err := repo.Create(ctx, "LV-100", usage.Draft{
		Date: "2024-01-01", TechlogNo: "A", BlockHours: 2.5, Cycles: 1,
	})
	require.NoError(t, err)
	assert.Positive(t, row.ID)
	assert.False(t, row.UpdatedAt.IsZero())

	got, err := repo.Get(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
	assert.True(t, got.UpdatedAt.Equal(row.UpdatedAt))
}

func TestListBySerialOrdersByDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		_, err := repo.Create(ctx, "LV-100", usage.Draft{Date: date, TechlogNo: "NIL"})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, "LV-200", usage.Draft{Date: "2024-01-01", TechlogNo: "NIL"})
	require.NoError(t, err)

	rows, err := repo.ListBySerial(ctx, "LV-100")
	require.NoError(t, err)
	require.Len(t, rows, 3, "other serials stay out of the list")
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "2024-01-02", rows[1].Date)
	assert.Equal(t, "2024-01-03", rows[2].Date)
}

func TestUpdateWithCurrentTokenSucceeds(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	row, err := repo.Create(ctx, "LV-100", usage.Draft{Date: "2024-01-01", TechlogNo: "A"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, row.ID, usage.Patch{
		Date: "2024-01-01", TechlogNo: "A", BlockHours: 4,
	}, row.UpdatedAt)
	require.NoError(t, err)
	assert.Equal(t, float64(4), updated.BlockHours)
	assert.False(t, updated.UpdatedAt.Before(row.UpdatedAt))
}

func TestUpdateWithStaleTokenConflicts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	row, err := repo.Create(ctx, "LV-100", usage.Draft{Date: "2024-01-01", TechlogNo: "A"})
	require.NoError(t, err)

	// Another editor wins the first write.
	_, err = repo.Update(ctx, row.ID, usage.Patch{
		Date: "2024-01-01", TechlogNo: "A", Cycles: 1,
	}, row.UpdatedAt)
	require.NoError(t, err)

	_, err = repo.Update(ctx, row.ID, usage.Patch{
		Date: "2024-01-01", TechlogNo: "A", Cycles: 2,
	}, row.UpdatedAt)
	require.ErrorIs(t, err, usage.ErrStaleWrite)

	got, err := repo.Get(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1), got.Cycles, "the losing write must not land")
}

func TestGetMissingRowIsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get(context.Background(), 404)
	require.ErrorIs(t, err, usage.ErrNotFound)

	_, err = repo.Update(context.Background(), 404, usage.Patch{
		Date: "2024-01-01", TechlogNo: "A",
	}, time.Now())
	require.ErrorIs(t, err, usage.ErrNotFound)
}
