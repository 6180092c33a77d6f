package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/cadbridge/dxfserve/internal/logging"
	"github.com/cadbridge/dxfserve/internal/mcpserver"
	"github.com/cadbridge/dxfserve/internal/tools"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Run the local MCP tool server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout belongs to the MCP protocol stream
		logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

		svc := tools.NewService(cfg, nil)
		return server.ServeStdio(mcpserver.NewLocalServer(svc))
	},
}

func init() {
	rootCmd.AddCommand(stdioCmd)
}
