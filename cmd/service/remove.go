package service

import (
	"fmt"

	"toolkit-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <contract>",
	Short: "Unregister instances of a contract",
	Long:  `Unregister instances of a contract; without --name every instance of the contract is removed`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()
		return removeService(client, args[0])
	},
}

func removeService(client rpc.HTTPClient, contract string) error {
	if err := checkResponse(client.Delete(contractPath(contract, ""), nameParams())); err != nil {
		return err
	}
	fmt.Printf("%s: removed\n", contract)
	return nil
}

func init() {
	serviceCmd.AddCommand(removeCmd)
}
