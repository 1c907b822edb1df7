package worksheet

import (
	"strings"

	"fleetlog/internal/domain/usage"
)

// Column identifies one of the user-editable worksheet columns, in their
// fixed left-to-right grid order.
type Column int

const (
	ColDate Column = iota
	ColTechlog
	ColBlockHours
	ColCycles

	columnCount
)

var columnNames = map[string]Column{
	"date":        ColDate,
	"techlog":     ColTechlog,
	"techlog_no":  ColTechlog,
	"block_hours": ColBlockHours,
	"hours":       ColBlockHours,
	"cycles":      ColCycles,
}

// ParseColumn resolves a user-supplied column name. The second return is
// false for unknown names.
func ParseColumn(name string) (Column, bool) {
	c, ok := columnNames[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

func (c Column) String() string {
	switch c {
	case ColDate:
		return "date"
	case ColTechlog:
		return "techlog_no"
	case ColBlockHours:
		return "block_hours"
	case ColCycles:
		return "cycles"
	}
	return "unknown"
}

// ExpandPaste translates a multi-cell clipboard payload into overlay upserts
// against the merged row set. It engages only when the payload contains a tab
// or line break; a plain single-cell value returns false and is left to the
// caller's normal edit path. The reported bool is what decides whether the
// default paste behavior is suppressed.
//
// Lines map onto consecutive merged rows starting at startRow; lines past the
// end of the merged set are dropped, never auto-appended. Within a line,
// values map onto consecutive columns starting at startCol; values past the
// last column are dropped. Numeric columns are coerced, not validated: text
// that is not a number becomes NaN and rides along until commit.
func ExpandPaste(overlay *Overlay, merged []usage.Row, text string, startRow int, startCol Column) bool {
	if !strings.ContainsAny(text, "\t\n") {
		return false
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		target := startRow + i
		if target < 0 || target >= len(merged) {
			continue
		}
		entry := buildEntry(merged[target], strings.Split(line, "\t"), startCol)
		overlay.Upsert(entry)
	}
	return true
}

// buildEntry maps one pasted line's values onto a dirty entry for the target
// row. The entry carries the row's id when it is persisted; otherwise the
// row's current date and techlog fill any identity fields the paste did not
// overwrite, so the entry keeps merging with the row's existing overlay
// entry.
func buildEntry(target usage.Row, values []string, startCol Column) usage.DirtyEntry {
	var entry usage.DirtyEntry
	if target.Persisted() {
		entry.ID = target.ID
	}

	for i, value := range values {
		col := startCol + Column(i)
		if col >= columnCount {
			break
		}
		switch col {
		case ColDate:
			v := value
			entry.Date = &v
		case ColTechlog:
			v := value
			entry.TechlogNo = &v
		case ColBlockHours:
			n := usage.ParseNumber(value)
			entry.BlockHours = &n
		case ColCycles:
			n := usage.ParseNumber(value)
			entry.Cycles = &n
		}
	}

	if !target.Persisted() {
		if entry.Date == nil {
			v := target.Date
			entry.Date = &v
		}
		if entry.TechlogNo == nil {
			v := target.TechlogNo
			entry.TechlogNo = &v
		}
	}
	return entry
}
