package usage

import (
	"fmt"
	"time"
)

// Draft is the body of a create call. The client fills defaults before
// sending: blank techlog becomes TechlogNone, unset figures become zero.
type Draft struct {
	Date       string  `json:"date"`
	TechlogNo  string  `json:"techlog_no"`
	BlockHours float64 `json:"block_hours"`
	Cycles     float64 `json:"cycles"`
	Note       string  `json:"note,omitempty"`
}

// Patch is the body of an update call. It carries only client-editable fields
// plus the optimistic-concurrency token from the last-known canonical row.
type Patch struct {
	Date       string  `json:"date"`
	TechlogNo  string  `json:"techlog_no"`
	BlockHours float64 `json:"block_hours"`
	Cycles     float64 `json:"cycles"`
	Note       string  `json:"note,omitempty"`

	LastSeenUpdatedAt time.Time `json:"last_seen_updated_at"`
}

// Validate checks a draft the way the backend does, so a row that could never
// be accepted fails locally at the commit boundary instead of on the wire.
func (d Draft) Validate() error {
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("%w: date %q is not a calendar date", ErrValidation, d.Date)
	}
	if !Number(d.BlockHours).Valid() {
		return fmt.Errorf("%w: block_hours is not a non-negative number", ErrValidation)
	}
	if !Number(d.Cycles).Valid() {
		return fmt.Errorf("%w: cycles is not a non-negative number", ErrValidation)
	}
	return nil
}

// Validate applies the same checks as Draft.Validate to an update body.
func (p Patch) Validate() error {
	return Draft{
		Date:       p.Date,
		TechlogNo:  p.TechlogNo,
		BlockHours: p.BlockHours,
		Cycles:     p.Cycles,
	}.Validate()
}
