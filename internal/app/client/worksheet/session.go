package worksheet

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"fleetlog/internal/domain/usage"
)

// Remote is the backend surface the worksheet needs: the canonical row store
// for one aircraft serial.
type Remote interface {
	ListRows(ctx context.Context, serial string) ([]usage.Row, error)
	CreateRow(ctx context.Context, serial string, draft usage.Draft) (usage.Row, error)
	UpdateRow(ctx context.Context, id int64, patch usage.Patch) (usage.Row, error)
}

// Session is one open worksheet for one aircraft serial. It owns the
// canonical row cache and the dirty overlay; everything rendered is derived
// from those two on demand. Lifecycle is load to discard/commit; switching
// tails means a new Session.
//
// A Session is not safe for concurrent use. The worksheet model is a single
// editor: overlay upserts happen synchronously in call order, and the
// committer works from a snapshot, so edits made while a commit is in flight
// are kept for the next one.
type Session struct {
	serial    string
	remote    Remote
	log       *slog.Logger
	now       func() time.Time
	canonical []usage.Row
	overlay   *Overlay
	loaded    bool
}

func NewSession(serial string, remote Remote, log *slog.Logger) *Session {
	return &Session{
		serial:  serial,
		remote:  remote,
		log:     log,
		now:     time.Now,
		overlay: NewOverlay(),
	}
}

// Load replaces the canonical row set from the backend. A failure here aborts
// rendering; the caller shows a retry affordance (or falls back to a cached
// snapshot). Pending edits survive a reload.
func (s *Session) Load(ctx context.Context) error {
	rows, err := s.remote.ListRows(ctx, s.serial)
	if err != nil {
		return fmt.Errorf("loading rows for %s: %w", s.serial, err)
	}
	s.canonical = rows
	s.loaded = true
	s.log.Debug("canonical rows loaded", "serial", s.serial, "rows", len(rows))
	return nil
}

// RestoreCanonical seeds the canonical set from a cached snapshot instead of
// the network, for offline viewing.
func (s *Session) RestoreCanonical(rows []usage.Row) {
	s.canonical = rows
	s.loaded = true
}

// Loaded reports whether the session has a canonical set to render.
func (s *Session) Loaded() bool {
	return s.loaded
}

// Rows returns the merged view: canonical rows with pending edits overlaid,
// sorted by date. Recomputed on every call; never cached.
func (s *Session) Rows() []usage.Row {
	return Merge(s.canonical, s.overlay.Entries(), s.now())
}

// Overlay exposes the dirty overlay for persistence by the CLI shell.
func (s *Session) Overlay() *Overlay {
	return s.overlay
}

// Edit records a single-cell or single-row edit.
func (s *Session) Edit(entry usage.DirtyEntry) {
	s.overlay.Upsert(entry)
}

// Paste expands a clipboard payload into edits against the current merged
// view. Returns true when the payload was multi-cell and consumed.
func (s *Session) Paste(text string, startRow int, startCol Column) bool {
	return ExpandPaste(s.overlay, s.Rows(), text, startRow, startCol)
}

// Gaps lists calendar days missing between the merged view's date bounds.
func (s *Session) Gaps() []string {
	return Gaps(s.Rows())
}

// Pending reports the number of uncommitted edits.
func (s *Session) Pending() int {
	return s.overlay.Len()
}

// Discard drops all pending edits without committing them.
func (s *Session) Discard() {
	s.overlay.Clear()
}

// Commit persists every pending edit, one sequential write per entry with
// per-row failure isolation, then clears the overlay and re-fetches the
// canonical rows so the next render reflects server-confirmed state
// (including real ids for created rows). The overlay is cleared even when
// some rows failed: the report tells the user which rows to re-edit, and the
// re-fetch shows the surviving server state.
//
// The walk covers the overlay snapshot taken at the start; edits accepted
// during the walk stay pending for the next commit.
func (s *Session) Commit(ctx context.Context) ([]CommitLine, error) {
	snapshot := s.overlay.Entries()
	if len(snapshot) == 0 {
		return nil, nil
	}

	s.log.Info("committing worksheet", "serial", s.serial, "entries", len(snapshot))
	report := commit(ctx, s.remote, s.log, s.serial, s.canonical, snapshot)

	// Drop exactly the entries this commit attempted; concurrent edits made
	// during the walk stay pending.
	s.dropCommitted(snapshot)

	if err := s.Load(ctx); err != nil {
		return report, fmt.Errorf("refreshing after commit: %w", err)
	}
	return report, nil
}

func (s *Session) dropCommitted(snapshot []usage.DirtyEntry) {
	committed := make(map[string]bool, len(snapshot))
	for _, e := range snapshot {
		committed[e.Key()] = true
	}
	remaining := s.overlay.Entries()
	s.overlay.Clear()
	for _, e := range remaining {
		if !committed[e.Key()] {
			s.overlay.Upsert(e)
		}
	}
}
