package main

import (
	"os"

	_ "module-keeper/cmd"
	"module-keeper/cmd/root"
	"module-keeper/internal/env"
	"module-keeper/internal/logger"
)

func main() {
	// 服务器模式下日志同时输出到控制台
	env.Daemon = len(os.Args) > 1 && os.Args[1] == "server"

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
