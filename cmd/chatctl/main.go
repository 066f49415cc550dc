package main

import (
	"os"

	"ollama-chat/cmd/chatctl/commands"
	"ollama-chat/cmd/internal/logger"
	"ollama-chat/config"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	if err := commands.NewRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
