// cmd/client/cmd/usage/discard.go
package usage

import (
	"fmt"

	"github.com/spf13/cobra"
)

var DiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Drop all staged edits",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, sheet, err := openSheet(cmd)
		if err != nil {
			return err
		}

		pending := sheet.Session.Pending()
		if pending == 0 {
			fmt.Println("Nothing staged.")
			return nil
		}

		if err := app.DiscardWorksheet(serial, sheet); err != nil {
			return fmt.Errorf("discarding edits: %w", err)
		}
		fmt.Printf("Dropped %d staged edit(s).\n", pending)
		return nil
	},
}
