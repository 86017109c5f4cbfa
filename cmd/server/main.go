package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-roster/internal/app"
	"github.com/vovakirdan/wirechat-roster/internal/config"
	applog "github.com/vovakirdan/wirechat-roster/internal/log"
)

type flags struct {
	configPath string
	addr       string
	dataDir    string
	logLevel   string
	autoKick   bool
}

func newCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "roster-server",
		Short:         "Lobby roster and chat session core with a local bridge socket and UI API.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "path to config.yaml (env: ROSTER_CONFIG_DEFAULT_PATH for the directory)")
	fs.StringVar(&f.addr, "addr", "", "HTTP listen address (env: ROSTER_ADDR)")
	fs.StringVar(&f.dataDir, "data-dir", "", "directory for per-profile lists (env: ROSTER_DATA_DIR)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (env: ROSTER_LOG_LEVEL)")
	fs.BoolVar(&f.autoKick, "auto-kick", false, "kick ignored players joining while room admin (env: ROSTER_AUTO_KICK)")

	cmd.CompletionOptions.HiddenDefaultCmd = true

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	bootLogger := applog.New("info")

	cfg, cfgPath, err := config.Load(bootLogger, f.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags win over file and env.
	fs := cmd.Flags()
	if fs.Changed("addr") {
		cfg.Addr = f.addr
	}
	if fs.Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("auto-kick") {
		cfg.AutoKick = f.autoKick
	}

	logger := applog.New(cfg.LogLevel)
	logger.Info().Str("config", cfgPath).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, &cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting roster server")
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
