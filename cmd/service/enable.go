package service

import (
	"fmt"
	"net/url"

	"toolkit-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <contract>",
	Short: "Enable instances of a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()
		return setEnabled(client, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <contract>",
	Short: "Disable instances of a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()
		return setEnabled(client, args[0], false)
	},
}

func setEnabled(client rpc.HTTPClient, contract string, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	path := contractPath(contract, action)
	if instanceName != "" {
		path += "?name=" + url.QueryEscape(instanceName)
	}
	if err := checkResponse(client.Post(path, nil)); err != nil {
		return err
	}
	fmt.Printf("%s: %sd\n", contract, action)
	return nil
}

func init() {
	serviceCmd.AddCommand(enableCmd)
	serviceCmd.AddCommand(disableCmd)
}
