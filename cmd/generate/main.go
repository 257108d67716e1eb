package main

import (
	"os"

	"github.com/oaeproject/model-loader/cmd/generate/cmd"
	"github.com/oaeproject/model-loader/internal/common/logging"
)

func main() {
	logging.ConfigureCliLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
