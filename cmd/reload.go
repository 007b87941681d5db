package cmd

import (
	"fmt"

	"toolkit-keeper/cmd/root"
	"toolkit-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the toolkit profile",
	Long:  `Ask the running daemon to re-read its profile and reset the service runtime`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reloadProfile(rpc.NewHTTPClient(nil))
	},
}

/**
 * Reload daemon profile via RPC
 * @param {rpc.HTTPClient} client - Daemon client
 * @returns {error} Connection or API error
 */
func reloadProfile(client rpc.HTTPClient) error {
	defer client.Close()
	resp, err := client.Post("/toolkit/api/v1/reload", nil)
	if err != nil {
		return fmt.Errorf("failed to call toolkit-keeper API: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("reload failed (%d): %s", resp.StatusCode, resp.Error)
	}
	fmt.Println("Profile reloaded")
	return nil
}

func init() {
	root.RootCmd.AddCommand(reloadCmd)
}
