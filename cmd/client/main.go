package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"StoreText/internal/cli/commands"
	"StoreText/internal/config"
	"StoreText/internal/logger"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log = logger.Nop()
	}
	defer func() { _ = log.Sync() }()
	commands.SetLogger(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// dispatcher
	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	if exitCode == 0 {
		return
	}
	_ = log.Sync()
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("StoreText CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
