// cmd/client/cmd/usage/usage.go
package usage

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleetlog/cmd/client/cmd/types"
	"fleetlog/internal/app/client"
)

var serial string

// UsageCmd is the parent command for worksheet operations on one aircraft.
var UsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Work with an aircraft's utilisation worksheet",
	Long: `View and edit the production/usage worksheet of one aircraft.

Edits are staged locally and survive between invocations; use "commit" to
push them to the backend and "discard" to drop them.`,
}

// openSheet builds the worksheet session for the selected aircraft,
// restoring staged edits and falling back to the cached snapshot when the
// backend is down.
func openSheet(cmd *cobra.Command) (*client.App, *client.Worksheet, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok {
		return nil, nil, fmt.Errorf("application not initialized")
	}

	sheet, err := app.OpenWorksheet(cmd.Context(), serial)
	if err != nil {
		return nil, nil, fmt.Errorf("opening worksheet for %s: %w", serial, err)
	}

	if sheet.Offline {
		fmt.Printf("Backend unreachable; showing snapshot fetched %s.\n",
			sheet.FetchedAt.Format("2006-01-02 15:04"))
	}
	return app, sheet, nil
}

func init() {
	UsageCmd.PersistentFlags().StringVarP(&serial, "aircraft", "a", "", "aircraft serial (required)")
	_ = UsageCmd.MarkPersistentFlagRequired("aircraft")
}
