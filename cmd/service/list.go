package service

import (
	"fmt"
	"io"
	"os"

	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/rpc"
	"toolkit-keeper/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有系统和服务",
	Long:  "按调用顺序列出运行时中注册的所有系统、服务和数据提供者",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()
		return listServices(client, os.Stdout)
	},
}

/**
 * List registered instances
 * @param {rpc.HTTPClient} client - Daemon client
 * @param {io.Writer} out - Output writer
 * @returns {error} Connection or API error
 * @description
 * - Systems are printed first, then services in call order
 */
func listServices(client rpc.HTTPClient, out io.Writer) error {
	resp, err := client.Get(servicesPath, nil)
	if err := checkResponse(resp, err); err != nil {
		return err
	}
	var list models.ServiceListResponse
	if err := resp.Decode(&list); err != nil {
		return err
	}

	fmt.Fprintf(out, "状态: %s\n\n", list.State)
	fmt.Fprintln(out, "=== 系统 ===")
	printDetails(out, list.Systems)
	fmt.Fprintln(out, "\n=== 服务 ===")
	printDetails(out, list.Services)
	return nil
}

type serviceColumns struct {
	Name     string `json:"name"`
	Contract string `json:"contract"`
	Type     string `json:"type"`
	Priority uint32 `json:"priority"`
	Parent   string `json:"parent"`
}

func printDetails(out io.Writer, details []models.ServiceDetail) {
	if len(details) == 0 {
		fmt.Fprintln(out, "(none)")
		return
	}
	var dataList []*orderedmap.OrderedMap
	for _, d := range details {
		recordMap, _ := utils.StructToOrderedMap(serviceColumns{
			Name:     d.Name,
			Contract: d.Contract,
			Type:     d.Type,
			Priority: d.Priority,
			Parent:   d.Parent,
		})
		dataList = append(dataList, recordMap)
	}
	utils.PrintFormat(out, dataList)
}

func init() {
	serviceCmd.AddCommand(listCmd)
}
