// cmd/client/cmd/usage/gaps.go
package usage

import (
	"fmt"

	"github.com/spf13/cobra"
)

var GapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "List calendar days missing from the worksheet",
	Long: `Checks the worksheet, staged edits included, for calendar days with no
row between the first and last date. Utilisation logs are expected to
cover every day, zero-hour days included.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, sheet, err := openSheet(cmd)
		if err != nil {
			return err
		}

		gaps := sheet.Session.Gaps()
		if len(gaps) == 0 {
			fmt.Println("No gaps.")
			return nil
		}

		fmt.Printf("%d missing day(s):\n", len(gaps))
		for _, day := range gaps {
			fmt.Println("  " + day)
		}
		return nil
	},
}
