package main

import (
	"os"

	"github.com/kubelift/kubelift/cmd/kubelift/cmd"
	"github.com/kubelift/kubelift/pkg/logger"
)

func main() {
	defer logger.SyncGlobal()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
