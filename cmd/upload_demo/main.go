package main

import (
	"context"
	"os"

	"github.com/blaaiz/blaaiz-go/config"
	"github.com/blaaiz/blaaiz-go/utils/logger"
)

func main() {
	if err := config.SetupConfig(); err != nil {
		logger.Fatalf("config SetupConfig: %v", nil, err)
	}

	if err := newRootCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
