// cmd/client/cmd/usage/pull.go
package usage

import (
	"fmt"

	"github.com/spf13/cobra"
)

var PullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Refresh the local snapshot from the backend",
	Long: `Fetches the aircraft's rows and refreshes the offline snapshot. Staged
edits are kept; they re-apply on top of the refreshed rows.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, sheet, err := openSheet(cmd)
		if err != nil {
			return err
		}
		if sheet.Offline {
			return fmt.Errorf("backend unreachable; snapshot left as fetched %s",
				sheet.FetchedAt.Format("2006-01-02 15:04"))
		}

		fmt.Printf("Fetched %d row(s) for %s.\n", len(sheet.Session.Rows()), serial)
		if pending := sheet.Session.Pending(); pending > 0 {
			fmt.Printf("%d staged edit(s) still apply on top.\n", pending)
		}
		return nil
	},
}
