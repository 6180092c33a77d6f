package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cadbridge/dxfserve/internal/config"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dxfserve",
	Short: "DXF inspection and CSV-export tool service",
	Long: `dxfserve exposes DXF structure inspection and entity-to-CSV export
as MCP tools, either over stdio for local use or as an HTTP service
with file upload/download for remote use.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env values overwrite existing env vars when present
		if err := godotenv.Overload(); err == nil {
			slog.Debug("loaded .env file")
		}

		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}
