package main

import (
	"os"

	_ "toolkit-keeper/cmd"
	"toolkit-keeper/cmd/root"
	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/logger"
)

func main() {
	// 配置加载前先用默认设置初始化日志，root 命令会按实际配置重新初始化
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"
	logger.InitLoggerWithMode(&config.Config.Log, isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
