package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolscout/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the read API with background ingestion and sweeping",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New()
		if err != nil {
			return err
		}
		return a.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
