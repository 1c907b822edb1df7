// cmd/client/cmd/auth/token.go
package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fleetlog/cmd/client/cmd/types"
	"fleetlog/internal/app/client"
)

var TokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Store the API token",
	Long: `Stores the bearer token issued by the maintenance portal. The token is
read from the terminal without echo and kept locally for subsequent
commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		fmt.Print("Token: ")
		token, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		fmt.Println()

		if err := app.SaveToken(string(token)); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}

		if err := app.HealthCheck(cmd.Context()); err != nil {
			fmt.Printf("Token saved, but the backend is unreachable: %v\n", err)
			return nil
		}
		fmt.Println("Token saved.")
		return nil
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		if err := app.ClearToken(); err != nil {
			return err
		}
		fmt.Println("Token removed.")
		return nil
	},
}
