package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolscout/internal/app"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass over all sources and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunIngest()
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
