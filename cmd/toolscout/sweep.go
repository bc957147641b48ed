package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolscout/internal/app"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Re-check the liveness of every stored mention and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunSweep()
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
