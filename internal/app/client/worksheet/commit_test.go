package worksheet

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fleetlog/internal/domain/usage"
)

// fakeRemote records calls in order and fails the ids/keys it is told to.
type fakeRemote struct {
	rows       []usage.Row
	calls      []string
	failUpdate map[int64]error
	failCreate map[string]error
	nextID     int64
	listErr    error
}

func newFakeRemote(rows ...usage.Row) *fakeRemote {
	return &fakeRemote{
		rows:       rows,
		failUpdate: map[int64]error{},
		failCreate: map[string]error{},
		nextID:     100,
	}
}

func (f *fakeRemote) ListRows(_ context.Context, serial string) ([]usage.Row, error) {
	f.calls = append(f.calls, "list "+serial)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]usage.Row, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRemote) CreateRow(_ context.Context, serial string, draft usage.Draft) (usage.Row, error) {
	f.calls = append(f.calls, fmt.Sprintf("create %s %s", serial, draft.Date))
	if err := f.failCreate[draft.Date]; err != nil {
		return usage.Row{}, err
	}
	f.nextID++
	row := usage.Row{
		ID: f.nextID, Date: draft.Date, TechlogNo: draft.TechlogNo,
		BlockHours: draft.BlockHours, Cycles: draft.Cycles, Note: draft.Note,
		UpdatedAt: time.Now(),
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeRemote) UpdateRow(_ context.Context, id int64, patch usage.Patch) (usage.Row, error) {
	f.calls = append(f.calls, fmt.Sprintf("update %d", id))
	if err := f.failUpdate[id]; err != nil {
		return usage.Row{}, err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Date = patch.Date
			f.rows[i].TechlogNo = patch.TechlogNo
			f.rows[i].BlockHours = patch.BlockHours
			f.rows[i].Cycles = patch.Cycles
			f.rows[i].Note = patch.Note
			f.rows[i].UpdatedAt = time.Now()
			return f.rows[i], nil
		}
	}
	return usage.Row{}, usage.ErrNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadedSession(t *testing.T, remote *fakeRemote) *Session {
	t.Helper()
	s := NewSession("LV-100", remote, testLogger())
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestCommitPartialFailure(t *testing.T) {
	now := time.Now()
	remote := newFakeRemote(
		usage.Row{ID: 1, Date: "2024-01-01", TechlogNo: "A", UpdatedAt: now},
		usage.Row{ID: 2, Date: "2024-01-02", TechlogNo: "B", UpdatedAt: now},
		usage.Row{ID: 3, Date: "2024-01-03", TechlogNo: "C", UpdatedAt: now},
	)
	remote.failUpdate[2] = fmt.Errorf("%w: edited by another user", usage.ErrStaleWrite)

	s := loadedSession(t, remote)
	s.Edit(usage.DirtyEntry{ID: 1, BlockHours: nump(1)})
	s.Edit(usage.DirtyEntry{ID: 2, BlockHours: nump(2)})
	s.Edit(usage.DirtyEntry{ID: 3, BlockHours: nump(3)})

	report, err := s.Commit(context.Background())
	require.NoError(t, err)

	require.Len(t, report, 3, "every attempted row gets a report line")
	assert.True(t, report[0].OK)
	assert.False(t, report[1].OK)
	assert.Contains(t, report[1].Message, "edited by another user")
	assert.True(t, report[2].OK, "a failure must not abort the remaining rows")

	assert.Equal(t, 0, s.Pending(), "overlay cleared regardless of per-row outcomes")
	assert.Equal(t, "list LV-100", remote.calls[len(remote.calls)-1], "canonical rows re-fetched after the walk")
}

func TestCommitNewRowIssuesSingleCreate(t *testing.T) {
	remote := newFakeRemote()
	s := loadedSession(t, remote)

	s.Edit(usage.DirtyEntry{Date: strp("2024-03-01"), TechlogNo: strp("NIL"), BlockHours: nump(0), Cycles: nump(0)})

	report, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Created)
	assert.True(t, report[0].OK)

	var creates, updates int
	for _, call := range remote.calls {
		if strings.HasPrefix(call, "create") {
			creates++
		}
		if strings.HasPrefix(call, "update") {
			updates++
		}
	}
	assert.Equal(t, 1, creates, "exactly one create call")
	assert.Equal(t, 0, updates, "never an update for an id-less entry")
}

func TestCommitSkipsVanishedRow(t *testing.T) {
	remote := newFakeRemote(usage.Row{ID: 1, Date: "2024-01-01", UpdatedAt: time.Now()})
	s := loadedSession(t, remote)

	// Row 99 was in the overlay but no longer exists server-side.
	s.Edit(usage.DirtyEntry{ID: 99, BlockHours: nump(5)})
	s.Edit(usage.DirtyEntry{ID: 1, BlockHours: nump(2)})

	report, err := s.Commit(context.Background())
	require.NoError(t, err)

	require.Len(t, report, 1, "the vanished row is skipped, not reported")
	for _, call := range remote.calls {
		assert.NotEqual(t, "update 99", call, "no network call for a vanished row")
	}
}

func TestCommitSequentialInOverlayOrder(t *testing.T) {
	now := time.Now()
	remote := newFakeRemote(
		usage.Row{ID: 1, Date: "2024-01-05", UpdatedAt: now},
		usage.Row{ID: 2, Date: "2024-01-01", UpdatedAt: now},
	)
	s := loadedSession(t, remote)

	// Overlay order, not date order, drives the walk.
	s.Edit(usage.DirtyEntry{ID: 1, Cycles: nump(1)})
	s.Edit(usage.DirtyEntry{Date: strp("2024-02-01"), TechlogNo: strp("NIL")})
	s.Edit(usage.DirtyEntry{ID: 2, Cycles: nump(2)})

	_, err := s.Commit(context.Background())
	require.NoError(t, err)

	writes := make([]string, 0, 3)
	for _, call := range remote.calls {
		if strings.HasPrefix(call, "update") || strings.HasPrefix(call, "create") {
			writes = append(writes, call)
		}
	}
	require.Equal(t, []string{"update 1", "create LV-100 2024-02-01", "update 2"}, writes)
}

func TestCommitCarriesConcurrencyToken(t *testing.T) {
	stamp := time.Date(2024, 4, 1, 8, 30, 0, 0, time.UTC)
	remote := newFakeRemote(usage.Row{ID: 1, Date: "2024-01-01", TechlogNo: "A", UpdatedAt: stamp})

	var gotToken time.Time
	wrapped := remoteFunc{
		list:   remote.ListRows,
		create: remote.CreateRow,
		update: func(ctx context.Context, id int64, patch usage.Patch) (usage.Row, error) {
			gotToken = patch.LastSeenUpdatedAt
			return remote.UpdateRow(ctx, id, patch)
		},
	}

	s := NewSession("LV-100", wrapped, testLogger())
	require.NoError(t, s.Load(context.Background()))
	s.Edit(usage.DirtyEntry{ID: 1, BlockHours: nump(4)})

	_, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.True(t, gotToken.Equal(stamp), "last-known updated_at must be passed through untouched")
}

func TestCommitRejectsNaNAtBoundaryWithoutNetworkCall(t *testing.T) {
	remote := newFakeRemote()
	s := loadedSession(t, remote)

	nan := usage.Number(math.NaN())
	s.Edit(usage.DirtyEntry{Date: strp("2024-03-01"), TechlogNo: strp("NIL"), BlockHours: &nan})

	report, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.False(t, report[0].OK)
	assert.Contains(t, report[0].Message, "block_hours")

	for _, call := range remote.calls {
		assert.False(t, strings.HasPrefix(call, "create"), "invalid row must not reach the wire")
	}
}

func TestCommitEmptyOverlayIsNoOp(t *testing.T) {
	remote := newFakeRemote()
	s := loadedSession(t, remote)
	callsBefore := len(remote.calls)

	report, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Equal(t, callsBefore, len(remote.calls), "no network traffic for an empty overlay")
}

func TestCommitDefaultsForNewRows(t *testing.T) {
	remote := newFakeRemote()
	var gotDraft usage.Draft
	wrapped := remoteFunc{
		list: remote.ListRows,
		create: func(ctx context.Context, serial string, draft usage.Draft) (usage.Row, error) {
			gotDraft = draft
			return remote.CreateRow(ctx, serial, draft)
		},
		update: remote.UpdateRow,
	}

	s := NewSession("LV-100", wrapped, testLogger())
	require.NoError(t, s.Load(context.Background()))

	// Only a date: techlog defaults to NIL, figures default to zero.
	s.Edit(usage.DirtyEntry{Date: strp("2024-03-02"), TechlogNo: strp("")})

	_, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, usage.TechlogNone, gotDraft.TechlogNo)
	assert.Zero(t, gotDraft.BlockHours)
	assert.Zero(t, gotDraft.Cycles)
}

// remoteFunc adapts free functions to the Remote interface for targeted
// interception in tests.
type remoteFunc struct {
	list   func(context.Context, string) ([]usage.Row, error)
	create func(context.Context, string, usage.Draft) (usage.Row, error)
	update func(context.Context, int64, usage.Patch) (usage.Row, error)
}

func (r remoteFunc) ListRows(ctx context.Context, serial string) ([]usage.Row, error) {
	return r.list(ctx, serial)
}

func (r remoteFunc) CreateRow(ctx context.Context, serial string, draft usage.Draft) (usage.Row, error) {
	return r.create(ctx, serial, draft)
}

func (r remoteFunc) UpdateRow(ctx context.Context, id int64, patch usage.Patch) (usage.Row, error) {
	return r.update(ctx, id, patch)
}
