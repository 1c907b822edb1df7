// cmd/client/cmd/usage/commit.go
package usage

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var CommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Push staged edits to the backend",
	Long: `Writes every staged edit to the backend, one row at a time. A row that
fails does not stop the rest; the report below lists each row's outcome.

A row rejected because someone else edited it first keeps the server's
version; re-open the worksheet, review, and stage the change again.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, sheet, err := openSheet(cmd)
		if err != nil {
			return err
		}

		if sheet.Session.Pending() == 0 {
			fmt.Println("Nothing staged.")
			return nil
		}

		report, err := app.CommitWorksheet(cmd.Context(), serial, sheet)
		if err != nil && report == nil {
			return err
		}

		ok := color.New(color.FgGreen).SprintFunc()
		fail := color.New(color.FgRed).SprintFunc()

		var failures int
		for _, line := range report {
			verb := "update"
			if line.Created {
				verb = "create"
			}
			if line.OK {
				fmt.Printf("%s %s %s %s: %s\n", ok("✓"), verb, line.Date, line.Techlog, line.Message)
			} else {
				failures++
				fmt.Printf("%s %s %s %s: %s\n", fail("✗"), verb, line.Date, line.Techlog, line.Message)
			}
		}

		if err != nil {
			fmt.Printf("Warning: worksheet refresh failed: %v\n", err)
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d row(s) failed; review and re-stage them", failures, len(report))
		}
		fmt.Printf("%d row(s) written.\n", len(report))
		return nil
	},
}
