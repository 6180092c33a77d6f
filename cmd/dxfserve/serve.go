package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cadbridge/dxfserve/internal/logging"
	"github.com/cadbridge/dxfserve/internal/store"
	"github.com/cadbridge/dxfserve/internal/tools"
	"github.com/cadbridge/dxfserve/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the remote HTTP service with upload/download and MCP over SSE",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

		files, err := store.NewFileStore(cfg.Storage.UploadDir, cfg.Storage.ResultDir)
		if err != nil {
			return err
		}

		svc := tools.NewService(cfg, files)
		server := web.NewServer(cfg, svc, files)

		slog.Info("configuration loaded",
			"addr", cfg.Server.Addr(),
			"upload_dir", cfg.Storage.UploadDir,
			"result_dir", cfg.Storage.ResultDir,
			"rate_limit_enabled", cfg.Rate.Enabled,
		)

		// Graceful shutdown
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			slog.Info("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
			}
		}()

		if err := server.Start(); err != nil {
			slog.Info("server stopped", "error", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
