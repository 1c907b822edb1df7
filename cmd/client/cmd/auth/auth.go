package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd is the parent command for token management.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API token",
	Long:  `Store or remove the bearer token issued by the maintenance portal.`,
}
