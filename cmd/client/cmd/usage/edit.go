// cmd/client/cmd/usage/edit.go
package usage

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "fleetlog/internal/domain/usage"
)

var (
	editRow     int64
	editDate    string
	editTechlog string
	editHours   string
	editCycles  string
	editNote    string
)

var EditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Stage an edit to one row",
	Long: `Stages changes to a row without touching the backend. Only the flags
you pass are changed; other fields keep their current value.

With --row the edit targets an existing server row. Without it a new row
is staged, identified by its date and techlog number until commit.

Numeric input is taken as-is: a value that is not a number stays in the
worksheet as an invalid cell and is rejected at commit, not here.`,
	Example: `  fleetlog usage edit -a LV-100 --row 12 --hours 5.5
  fleetlog usage edit -a LV-100 --date 2024-02-01 --techlog AB-123 --hours 5 --cycles 2`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entry := domain.DirtyEntry{ID: editRow}

		if cmd.Flags().Changed("date") {
			entry.Date = &editDate
		}
		if cmd.Flags().Changed("techlog") {
			entry.TechlogNo = &editTechlog
		}
		if cmd.Flags().Changed("hours") {
			n := domain.ParseNumber(editHours)
			entry.BlockHours = &n
		}
		if cmd.Flags().Changed("cycles") {
			n := domain.ParseNumber(editCycles)
			entry.Cycles = &n
		}
		if cmd.Flags().Changed("note") {
			entry.Note = &editNote
		}

		if entry == (domain.DirtyEntry{ID: editRow}) {
			return fmt.Errorf("nothing to change: pass at least one of --date, --techlog, --hours, --cycles, --note")
		}
		if editRow == 0 && entry.Date == nil {
			return fmt.Errorf("a new row needs --date")
		}

		app, sheet, err := openSheet(cmd)
		if err != nil {
			return err
		}

		sheet.Session.Edit(entry)
		if err := app.SaveWorksheet(serial, sheet); err != nil {
			return fmt.Errorf("saving staged edits: %w", err)
		}

		fmt.Printf("Staged. %d edit(s) pending.\n", sheet.Session.Pending())
		return nil
	},
}

func init() {
	EditCmd.Flags().Int64Var(&editRow, "row", 0, "server row id (omit to stage a new row)")
	EditCmd.Flags().StringVar(&editDate, "date", "", "date (2006-01-02)")
	EditCmd.Flags().StringVar(&editTechlog, "techlog", "", "techlog number")
	EditCmd.Flags().StringVar(&editHours, "hours", "", "block hours")
	EditCmd.Flags().StringVar(&editCycles, "cycles", "", "cycles")
	EditCmd.Flags().StringVar(&editNote, "note", "", "note")
}
