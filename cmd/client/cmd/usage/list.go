// cmd/client/cmd/usage/list.go
package usage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domain "fleetlog/internal/domain/usage"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the worksheet",
	Long: `Renders the merged worksheet: server rows with your staged edits
overlaid. Dirty rows are marked with *, rows not yet on the server with +.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, sheet, err := openSheet(cmd)
		if err != nil {
			return err
		}

		rows := sheet.Session.Rows()

		dirtyIDs := make(map[int64]bool)
		for _, e := range sheet.Session.Overlay().Entries() {
			if e.ID > 0 {
				dirtyIDs[e.ID] = true
			}
		}

		switch listFormat {
		case "json":
			return printRowsJSON(rows)
		default:
			return printRowsTable(rows, dirtyIDs, sheet.Session.Pending())
		}
	},
}

func printRowsTable(rows []domain.Row, dirtyIDs map[int64]bool, pending int) error {
	if len(rows) == 0 {
		fmt.Println("No rows. Paste or edit to add some.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\tDate\tTechlog\tHours\tCycles\tTotal hrs\tTotal cyc\tTo check (h)\tTo check (d)\tNote\t\n")

	for _, row := range rows {
		marker := " "
		if !row.Persisted() {
			marker = "+"
		} else if dirtyIDs[row.ID] {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f\t%.0f\t%.1f\t%d\t%s\t\n",
			marker,
			row.Date,
			row.TechlogNo,
			formatFigure(row.BlockHours),
			formatFigure(row.Cycles),
			row.TotalHours,
			row.TotalCycles,
			row.HoursToNextCheck,
			row.DaysToNextCheck,
			row.Note,
		)
	}
	w.Flush()

	if pending > 0 {
		fmt.Printf("\n%d staged edit(s). Run \"fleetlog usage commit -a <serial>\" to push them.\n", pending)
	}
	return nil
}

// formatFigure renders a numeric cell. Coerced garbage input is NaN until
// commit; it renders as ? so the user can spot and fix it.
func formatFigure(f float64) string {
	if math.IsNaN(f) {
		return "?"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func printRowsJSON(rows []domain.Row) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table, json)")
}
