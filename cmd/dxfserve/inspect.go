package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cadbridge/dxfserve/internal/logging"
	"github.com/cadbridge/dxfserve/internal/tools"
)

var inspectMaxEntities int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.dxf>",
	Short: "Preview the entity structure and XDATA of a DXF file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

		svc := tools.NewService(cfg, nil)
		for _, line := range svc.InspectStructure(args[0], inspectMaxEntities) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectMaxEntities, "max-entities", 0,
		"maximum entities to list (0 uses the configured default, negative lists all)")
	rootCmd.AddCommand(inspectCmd)
}
