package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cadbridge/dxfserve/internal/logging"
	"github.com/cadbridge/dxfserve/internal/tools"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <file.dxf>",
	Short: "Export the entities of a DXF file to CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

		svc := tools.NewService(cfg, nil)
		fmt.Println(svc.ConvertToCSV(args[0], convertOutput))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"output CSV path (default: input path with .csv extension)")
	rootCmd.AddCommand(convertCmd)
}
