// cmd/client/cmd/init.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleetlog/cmd/client/cmd/auth"
	"fleetlog/cmd/client/cmd/usage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend connectivity and client configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Printf("Server:     %s\n", cfg.ServerAddress)
		fmt.Printf("Data dir:   %s\n", cfg.ConfigDir)
		fmt.Printf("Client id:  %s\n", cfg.ClientID)

		if err := app.HealthCheck(cmd.Context()); err != nil {
			fmt.Printf("Backend:    unreachable (%v)\n", err)
			fmt.Println("Worksheets render from the last fetched snapshot until it is back.")
			return nil
		}
		fmt.Println("Backend:    reachable")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.TokenCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(usage.UsageCmd)
	usage.UsageCmd.AddCommand(usage.ListCmd)
	usage.UsageCmd.AddCommand(usage.EditCmd)
	usage.UsageCmd.AddCommand(usage.PasteCmd)
	usage.UsageCmd.AddCommand(usage.GapsCmd)
	usage.UsageCmd.AddCommand(usage.CommitCmd)
	usage.UsageCmd.AddCommand(usage.DiscardCmd)
	usage.UsageCmd.AddCommand(usage.PullCmd)
}
