// Package cmd provides the command-line interface for the gitscout tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gitscout",
	Short: "gitscout scouts GitHub repositories and issues worth contributing to",
	Long: `gitscout is a dashboard for scouting GitHub repositories and issues.
Browse listings, track the ones you care about, and attach AI-generated
insight (difficulty, skill match, suggested approach) to each.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("repository", "r", "", "GitHub repository name (e.g., 'username/repo')")
}
