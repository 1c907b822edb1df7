// cmd/client/cmd/usage/paste.go
package usage

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fleetlog/internal/app/client/worksheet"
)

var (
	pasteRow  int
	pasteCol  string
	pasteText string
)

var PasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Paste a spreadsheet block into the worksheet",
	Long: `Expands a tab-separated block, as copied from a spreadsheet, into
staged edits starting at the given row and column. Rows past the end of
the worksheet and columns past the last one are dropped.

The payload is read from stdin unless --text is given.`,
	Example: `  xclip -o | fleetlog usage paste -a LV-100 --row 0 --col date
  fleetlog usage paste -a LV-100 --row 3 --col hours --text "5\t2"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		text := pasteText
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
		}
		if text == "" {
			return fmt.Errorf("empty paste payload")
		}

		col, ok := worksheet.ParseColumn(pasteCol)
		if !ok {
			return fmt.Errorf("unknown column %q: use date, techlog, hours or cycles", pasteCol)
		}

		app, sheet, err := openSheet(cmd)
		if err != nil {
			return err
		}

		if !sheet.Session.Paste(text, pasteRow, col) {
			return fmt.Errorf("single-cell payload: use \"usage edit\" for single values")
		}

		if err := app.SaveWorksheet(serial, sheet); err != nil {
			return fmt.Errorf("saving staged edits: %w", err)
		}

		fmt.Printf("Pasted. %d edit(s) pending.\n", sheet.Session.Pending())
		return nil
	},
}

func init() {
	PasteCmd.Flags().IntVar(&pasteRow, "row", 0, "worksheet row index to start at")
	PasteCmd.Flags().StringVar(&pasteCol, "col", "date", "column to start at (date, techlog, hours, cycles)")
	PasteCmd.Flags().StringVar(&pasteText, "text", "", "paste payload (default: read stdin)")
}
