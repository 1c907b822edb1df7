package worksheet

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"fleetlog/internal/domain/usage"
)

// CommitLine is one row's outcome in the commit report. The report lists
// every attempted row, success or failure, with the server's message text;
// it is never collapsed into a single pass/fail flag.
type CommitLine struct {
	Date    string `json:"date"`
	Techlog string `json:"techlog_no"`
	Created bool   `json:"created"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// commit drains the given overlay snapshot against the remote, strictly
// sequentially with one write in flight at a time. That ordering is a
// guarantee, not an optimization: the report comes out in the order the edits
// were made, and the backend sees at most one write per client.
//
// A failed row is recorded and iteration continues; a batch of N edits where
// one fails still persists the other N-1. Entries whose positive id no longer
// matches a canonical row are skipped without a network call: the row is gone
// server-side and there is nothing left to update.
func commit(ctx context.Context, remote Remote, log *slog.Logger, serial string, canonical []usage.Row, entries []usage.DirtyEntry) []CommitLine {
	byID := make(map[int64]usage.Row, len(canonical))
	for _, row := range canonical {
		byID[row.ID] = row
	}

	var report []CommitLine
	for _, entry := range entries {
		if entry.ID > 0 {
			row, ok := byID[entry.ID]
			if !ok {
				log.Debug("skipping edit for row no longer on server", "id", entry.ID)
				continue
			}
			report = append(report, commitUpdate(ctx, remote, entry, row))
			continue
		}
		report = append(report, commitCreate(ctx, remote, serial, entry))
	}
	return report
}

func commitUpdate(ctx context.Context, remote Remote, entry usage.DirtyEntry, row usage.Row) CommitLine {
	merged := entry.ApplyTo(row)
	line := CommitLine{Date: merged.Date, Techlog: merged.TechlogNo}

	patch := usage.Patch{
		Date:              merged.Date,
		TechlogNo:         merged.TechlogNo,
		BlockHours:        merged.BlockHours,
		Cycles:            merged.Cycles,
		Note:              merged.Note,
		LastSeenUpdatedAt: row.UpdatedAt,
	}
	if err := patch.Validate(); err != nil {
		line.Message = err.Error()
		return line
	}

	if _, err := remote.UpdateRow(ctx, entry.ID, patch); err != nil {
		line.Message = err.Error()
		return line
	}
	line.OK = true
	line.Message = fmt.Sprintf("row %d updated", entry.ID)
	return line
}

func commitCreate(ctx context.Context, remote Remote, serial string, entry usage.DirtyEntry) CommitLine {
	row := entry.ApplyTo(usage.Row{})
	line := CommitLine{Date: row.Date, Techlog: row.TechlogNo, Created: true}

	draft := usage.Draft{
		Date:       row.Date,
		TechlogNo:  row.TechlogNo,
		BlockHours: row.BlockHours,
		Cycles:     row.Cycles,
		Note:       row.Note,
	}
	if draft.TechlogNo == "" {
		draft.TechlogNo = usage.TechlogNone
	}
	line.Techlog = draft.TechlogNo
	if err := draft.Validate(); err != nil {
		line.Message = err.Error()
		return line
	}

	created, err := remote.CreateRow(ctx, serial, draft)
	if err != nil {
		line.Message = err.Error()
		return line
	}
	line.OK = true
	line.Message = fmt.Sprintf("row %d created", created.ID)
	return line
}
