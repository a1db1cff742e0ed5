package main

import (
	"os"

	_ "speckeeper/cmd"
	"speckeeper/cmd/root"
	"speckeeper/internal/config"
	"speckeeper/internal/logger"
)

func main() {
	// Server mode mirrors logs to stdout, CLI mode keeps them in the file.
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"

	logger.InitLoggerWithMode(&config.Config.Log, isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
