package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolscout/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "toolscout",
	Short: "Discover and track software tools mentioned across the web",
	Long: `toolscout ingests tool mentions from Hacker News, Stack Exchange and
GitHub search, merges them into a deduplicated catalog, and serves the
result over a small read API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Load .env early so TOOLSCOUT_* variables are set before config.Load.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("toolscout %s (commit=%s, built=%s, go=%s)\n",
				version.Version, version.Commit, version.BuildDate, version.GoVersion)
		},
	})
}
