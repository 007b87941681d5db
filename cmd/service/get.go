package service

import (
	"fmt"
	"io"
	"os"

	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <contract>",
	Short: "显示契约下注册的实例",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()
		return getService(client, os.Stdout, args[0])
	},
}

func getService(client rpc.HTTPClient, out io.Writer, contract string) error {
	resp, err := client.Get(contractPath(contract, ""), nameParams())
	if err := checkResponse(resp, err); err != nil {
		return err
	}
	var details []models.ServiceDetail
	if err := resp.Decode(&details); err != nil {
		return err
	}
	for i, d := range details {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "名称: %s\n", d.Name)
		fmt.Fprintf(out, "契约: %s\n", d.Contract)
		fmt.Fprintf(out, "类型: %s (%s)\n", d.Type, d.Kind)
		fmt.Fprintf(out, "优先级: %d\n", d.Priority)
		fmt.Fprintf(out, "句柄: %s\n", d.Handle)
		if d.Parent != "" {
			fmt.Fprintf(out, "所属: %s\n", d.Parent)
		}
	}
	return nil
}

func init() {
	serviceCmd.AddCommand(getCmd)
}
