package main

import (
	"context"
	"cosbackup/internal/cmdutil"
	"cosbackup/logger"
	"cosbackup/pkg/cmd"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.New().ExecuteContext(ctx)
	cancel()
	logger.Sync()

	if err != nil {
		cmdutil.PrintE("Error: " + err.Error())
		os.Exit(1)
	}
}
