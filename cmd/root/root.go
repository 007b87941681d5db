package root

import (
	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/logger"

	"github.com/spf13/cobra"
)

var configFile string

var RootCmd = &cobra.Command{
	Use:   "toolkit-keeper",
	Short: "服务运行时守护进程与命令行工具",
	Long:  `toolkit-keeper 托管平台目录、服务注册表和生命周期编排器，并提供查询与控制命令`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configFile); err != nil {
			return err
		}
		logger.InitLoggerWithMode(&config.Config.Log, cmd.Name() == "server")
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml or ~/.toolkit-keeper/config.yaml)")
}
