package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"followme/internal/app"
	"followme/internal/config"
	"followme/internal/logger"
)

var serveFlags struct {
	config   string
	port     int
	database string
	logLevel string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic sender",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.config, "config", "c", "", "YAML config file")
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "HTTP port (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.database, "db", "", "sqlite database path (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "debug, info, warn, error or off (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveFlags.config)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serveFlags.port
	}
	if serveFlags.database != "" {
		cfg.Database = serveFlags.database
	}
	if serveFlags.logLevel != "" {
		cfg.LogLevel = serveFlags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 创建应用实例
	a := app.NewApp(cfg)
	if err := a.Initialize(); err != nil {
		logger.Error("Init error: %v", err)
		return err
	}

	if err := a.Start(); err != nil {
		logger.Error("Start error: %v", err)
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Stop(ctx); err != nil {
		logger.Error("Stop error: %v", err)
		return err
	}
	return nil
}
