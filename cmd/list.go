package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velvetrock/gitscout/internal/logging"
)

// listCmd lists the open issues of a repository, marking tracked ones.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open issues of a repository",
	Long: `List the open issues of a GitHub repository. Issues already on your
tracked list are marked with an asterisk.

Example:
  gitscout list -r owner/repo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repository, err := cmd.Flags().GetString("repository")
		if err != nil {
			return err
		}
		if repository == "" {
			return fmt.Errorf("repository flag is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		githubClient, err := a.newGitHubClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := a.manager.Refresh(ctx); err != nil {
			logging.Warn("failed to refresh tracked ids", "error", err)
		}

		issues, err := githubClient.ListIssues(ctx, repository)
		if err != nil {
			return fmt.Errorf("failed to fetch issues: %w", err)
		}

		logging.Info("found issues", "repository", repository, "count", len(issues))

		for _, issue := range issues {
			marker := " "
			if a.manager.IsTracked(issue.Ref.ID()) {
				marker = "*"
			}
			labels := ""
			if len(issue.Labels) > 0 {
				labels = "  [" + strings.Join(issue.Labels, ", ") + "]"
			}
			fmt.Printf("%s #%-6d %s%s\n", marker, issue.Ref.Number, issue.Title, labels)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
