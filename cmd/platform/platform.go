package platform

import (
	"fmt"
	"io"
	"os"
	"strings"

	"toolkit-keeper/cmd/root"
	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/rpc"
	"toolkit-keeper/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

const platformsPath = "/toolkit/api/v1/platforms"

var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "平台信息查询",
	Long:  `查看运行时发现的平台描述以及平台列表在当前环境下是否有效`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "列出发现的所有平台",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := rpc.NewHTTPClient(nil)
		defer client.Close()
		return listPlatforms(client, os.Stdout)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <platform>...",
	Short: "检查平台列表在当前环境下是否有效",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := rpc.NewHTTPClient(nil)
		defer client.Close()
		return checkPlatforms(client, os.Stdout, args)
	},
}

type platformColumns struct {
	Name        string   `json:"name"`
	Available   bool     `json:"available"`
	BuildTarget bool     `json:"build_target"`
	Active      bool     `json:"active"`
	Overrides   []string `json:"overrides"`
}

func call(resp *rpc.HTTPResponse, err error, v any) error {
	if err != nil {
		return fmt.Errorf("failed to call toolkit-keeper API: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("request failed (%d %s): %s", resp.StatusCode, resp.Code, resp.Error)
	}
	return resp.Decode(v)
}

/**
 * Print discovered platforms
 * @param {rpc.HTTPClient} client - Daemon client
 * @param {io.Writer} out - Output writer
 * @returns {error} Connection or API error
 */
func listPlatforms(client rpc.HTTPClient, out io.Writer) error {
	resp, err := client.Get(platformsPath, nil)
	var list models.PlatformListResponse
	if err := call(resp, err, &list); err != nil {
		return err
	}

	fmt.Fprintf(out, "GOOS: %s  Editor: %t", list.GOOS, list.Editor)
	if list.BuildTarget != "" {
		fmt.Fprintf(out, "  BuildTarget: %s", list.BuildTarget)
	}
	fmt.Fprintln(out)
	var dataList []*orderedmap.OrderedMap
	for _, p := range list.Platforms {
		recordMap, _ := utils.StructToOrderedMap(platformColumns{
			Name:        p.Name,
			Available:   p.Available,
			BuildTarget: p.BuildTargetAvailable,
			Active:      p.Active,
			Overrides:   p.Overrides,
		})
		dataList = append(dataList, recordMap)
	}
	return utils.PrintFormat(out, dataList)
}

func checkPlatforms(client rpc.HTTPClient, out io.Writer, names []string) error {
	resp, err := client.Post(platformsPath+"/check", &models.PlatformCheckRequest{Platforms: names})
	var check models.PlatformCheckResponse
	if err := call(resp, err, &check); err != nil {
		return err
	}
	verdict := "not eligible"
	if check.Eligible {
		verdict = "eligible"
	}
	fmt.Fprintf(out, "[%s]: %s (active: %s)\n", strings.Join(check.Platforms, ", "), verdict, strings.Join(check.ActivePlatforms, ", "))
	return nil
}

func init() {
	root.RootCmd.AddCommand(platformCmd)
	platformCmd.AddCommand(listCmd)
	platformCmd.AddCommand(checkCmd)

	platformCmd.Example = `  toolkit-keeper platform list
  toolkit-keeper platform check android linux`
}
