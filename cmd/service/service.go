/*
Copyright © 2022 zbc <zbc@sangfor.com.cn>
*/
package service

import (
	"fmt"

	"toolkit-keeper/cmd/root"
	"toolkit-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

const servicesPath = "/toolkit/api/v1/services"

var instanceName string

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Service operations (list/get/enable/disable/remove)",
	Long:  `Inspect and control the systems and services registered in the running toolkit`,
}

const serviceExample = `  # list registered services
  toolkit-keeper service list
  # disable one instance
  toolkit-keeper service disable systems.Heartbeat --name beat`

// newClient is replaced in tests.
var newClient = func() rpc.HTTPClient {
	return rpc.NewHTTPClient(nil)
}

func contractPath(contract, action string) string {
	p := servicesPath + "/" + contract
	if action != "" {
		p += "/" + action
	}
	return p
}

func nameParams() map[string]interface{} {
	if instanceName == "" {
		return nil
	}
	return map[string]interface{}{"name": instanceName}
}

func checkResponse(resp *rpc.HTTPResponse, err error) error {
	if err != nil {
		return fmt.Errorf("failed to call toolkit-keeper API: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("request failed (%d %s): %s", resp.StatusCode, resp.Code, resp.Error)
	}
	return nil
}

func init() {
	root.RootCmd.AddCommand(serviceCmd)
	serviceCmd.PersistentFlags().StringVarP(&instanceName, "name", "n", "", "instance name")

	serviceCmd.Example = serviceExample
}
