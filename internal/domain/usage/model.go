package usage

import (
	"math"
	"strconv"
	"time"
)

// TechlogNone is the sentinel stored when a row carries no techlog page
// reference.
const TechlogNone = "NIL"

// DateLayout is the wire format for the date column. ISO dates sort
// lexicographically in chronological order, which the merge view and the gap
// detector rely on.
const DateLayout = "2006-01-02"

// Row is one utilisation log entry for one aircraft on one calendar day, as
// the server owns it. Rows that exist only locally use a negative placeholder
// ID until the server assigns a real one.
type Row struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	TechlogNo  string  `json:"techlog_no"`
	BlockHours float64 `json:"block_hours"`
	Cycles     float64 `json:"cycles"`
	Note       string  `json:"note,omitempty"`

	// Server-derived, read-only. The client renders them as-is and never
	// writes them back.
	TotalHours       float64 `json:"total_hours"`
	TotalCycles      float64 `json:"total_cycles"`
	HoursToNextCheck float64 `json:"hours_to_next_check"`
	DaysToNextCheck  int     `json:"days_to_next_check"`

	// UpdatedAt doubles as the optimistic-concurrency token. It is passed
	// back untouched on update; the server rejects the write if its stored
	// value differs.
	UpdatedAt time.Time `json:"updated_at"`
}

// Persisted reports whether the row has a server-assigned identifier.
// Server IDs are always positive.
func (r Row) Persisted() bool {
	return r.ID > 0
}

// Number is a numeric cell value as entered or pasted by the user. Input is
// coerced, not validated: non-numeric text yields NaN, which is carried
// through the overlay unchanged and only rejected at the commit boundary.
type Number float64

// ParseNumber coerces free text into a Number. Non-numeric input maps to NaN.
func ParseNumber(s string) Number {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

// Valid reports whether the value is acceptable for a utilisation figure:
// finite and non-negative.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// DirtyEntry is one pending local edit. Nil fields were not touched by the
// user and keep whatever value the underlying row has.
//
// ID > 0 marks an edit to a persisted row; ID == 0 marks a new row whose
// identity is the (date, techlog_no) natural key until commit.
type DirtyEntry struct {
	ID         int64
	Date       *string
	TechlogNo  *string
	BlockHours *Number
	Cycles     *Number
	Note       *string
}

// Key returns the overlay identity key: "id:<id>" for persisted rows,
// "new:<date>:<techlog_no>" otherwise. At most one overlay entry exists per
// key at any time.
func (e DirtyEntry) Key() string {
	if e.ID > 0 {
		return "id:" + strconv.FormatInt(e.ID, 10)
	}
	date, techlog := "", ""
	if e.Date != nil {
		date = *e.Date
	}
	if e.TechlogNo != nil {
		techlog = *e.TechlogNo
	}
	return "new:" + date + ":" + techlog
}

// Merge folds other's set fields into e, field by field. Later edits win per
// field; untouched fields survive, so editing two cells of the same unsaved
// row accumulates both.
func (e *DirtyEntry) Merge(other DirtyEntry) {
	if other.ID > 0 {
		e.ID = other.ID
	}
	if other.Date != nil {
		e.Date = other.Date
	}
	if other.TechlogNo != nil {
		e.TechlogNo = other.TechlogNo
	}
	if other.BlockHours != nil {
		e.BlockHours = other.BlockHours
	}
	if other.Cycles != nil {
		e.Cycles = other.Cycles
	}
	if other.Note != nil {
		e.Note = other.Note
	}
}

// ApplyTo overlays the entry's set fields onto a copy of row.
func (e DirtyEntry) ApplyTo(row Row) Row {
	if e.Date != nil {
		row.Date = *e.Date
	}
	if e.TechlogNo != nil {
		row.TechlogNo = *e.TechlogNo
	}
	if e.BlockHours != nil {
		row.BlockHours = float64(*e.BlockHours)
	}
	if e.Cycles != nil {
		row.Cycles = float64(*e.Cycles)
	}
	if e.Note != nil {
		row.Note = *e.Note
	}
	return row
}
