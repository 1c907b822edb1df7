package usage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/exp/slog"
)

// CheckInterval configures the maintenance-status derivation the stub server
// performs at list time. The production backend owns the real computation;
// the stub only needs numbers shaped like it.
type CheckInterval struct {
	Hours float64
	Days  int
}

// Servicer is what the HTTP layer needs from the usage service.
type Servicer interface {
	List(ctx context.Context, serial string) ([]Row, error)
	Create(ctx context.Context, serial string, d Draft) (Row, error)
	Update(ctx context.Context, id int64, p Patch) (Row, error)
}

// Service computes the derived read-only columns on top of a Repository.
type Service struct {
	repo  Repository
	check CheckInterval
	log   *slog.Logger
}

func NewService(repo Repository, check CheckInterval, log *slog.Logger) *Service {
	return &Service{repo: repo, check: check, log: log}
}

// List returns the serial's rows in date order with cumulative totals and
// to-next-check figures filled in.
func (s *Service) List(ctx context.Context, serial string) ([]Row, error) {
	rows, err := s.repo.ListBySerial(ctx, serial)
	if err != nil {
		return nil, fmt.Errorf("listing rows for %s: %w", serial, err)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	var first time.Time
	if len(rows) > 0 {
		first, _ = time.Parse(DateLayout, rows[0].Date)
	}

	var hours, cycles float64
	for i := range rows {
		hours += rows[i].BlockHours
		cycles += rows[i].Cycles
		rows[i].TotalHours = hours
		rows[i].TotalCycles = cycles
		if s.check.Hours > 0 {
			rows[i].HoursToNextCheck = s.check.Hours - math.Mod(hours, s.check.Hours)
		}
		if s.check.Days > 0 && !first.IsZero() {
			if d, err := time.Parse(DateLayout, rows[i].Date); err == nil {
				elapsed := int(d.Sub(first).Hours() / 24)
				rows[i].DaysToNextCheck = s.check.Days - elapsed%s.check.Days
			}
		}
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, serial string, d Draft) (Row, error) {
	if d.TechlogNo == "" {
		d.TechlogNo = TechlogNone
	}
	if err := d.Validate(); err != nil {
		return Row{}, err
	}
	row, err := s.repo.Create(ctx, serial, d)
	if err != nil {
		return Row{}, fmt.Errorf("creating row for %s: %w", serial, err)
	}
	s.log.Info("usage row created", "serial", serial, "id", row.ID, "date", row.Date)
	return row, nil
}

func (s *Service) Update(ctx context.Context, id int64, p Patch) (Row, error) {
	if p.TechlogNo == "" {
		p.TechlogNo = TechlogNone
	}
	if err := p.Validate(); err != nil {
		return Row{}, err
	}
	row, err := s.repo.Update(ctx, id, p, p.LastSeenUpdatedAt)
	if err != nil {
		return Row{}, err
	}
	s.log.Info("usage row updated", "id", id, "date", row.Date)
	return row, nil
}
