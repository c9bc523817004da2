package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"empgrid/internal/config"
	"empgrid/internal/ui"
	"empgrid/internal/util/logx"
	"empgrid/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println(version.Name, version.String())
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting %s %s: %s", version.Name, version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("%s exited with error: %v", version.Name, err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
