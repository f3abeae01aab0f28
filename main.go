// Package main is the entry point for the gitscout CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/velvetrock/gitscout/cmd"
	"github.com/velvetrock/gitscout/internal/logging"
)

func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logging.Debug("starting gitscout", "log_level", logLevel)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
