package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shellgate/shellgate/internal/execsup"
	"github.com/shellgate/shellgate/internal/gateway"
	"github.com/shellgate/shellgate/internal/mcpserver"
	"github.com/shellgate/shellgate/internal/shellconfig"
	"github.com/shellgate/shellgate/internal/validate"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP stdio server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfgPath := resolveConfigPath()
	cfg, err := shellconfig.Load(cfgPath)
	if err != nil {
		logger.Error("failed to load config, falling back to defaults", "path", cfgPath, "error", err)
		cfg = shellconfig.Default()
	}

	resolved := shellconfig.ResolveAll(cfg)
	contexts := validate.BuildContexts(resolved)
	state := gateway.NewServerState(cfg, resolved)
	dispatcher := gateway.NewDispatcher(state, contexts, execsup.New(contexts, logger), logger)
	server := mcpserver.New(dispatcher, state, logger)

	watcher, err := shellconfig.NewWatcher(cfgPath, func(newCfg *shellconfig.Config, newResolved map[string]*shellconfig.ResolvedShellConfig) {
		newContexts := validate.BuildContexts(newResolved)
		dispatcher.Reload(newContexts, execsup.New(newContexts, logger))
		logger.Info("configuration reloaded", "path", cfgPath, "enabledShells", shellconfig.EnabledShellNames(newCfg))
	})
	if err != nil {
		logger.Warn("config watcher unavailable, hot reload disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutdown signal received", "signal", sig)
		os.Exit(0)
	}()

	logger.Info("shellgate serving over stdio", "enabledShells", shellconfig.EnabledShellNames(cfg))
	if err := server.ServeStdio(); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
