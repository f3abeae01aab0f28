package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velvetrock/gitscout/internal/logging"
)

// trendingCmd lists repositories worth scouting, sorted by stars.
var trendingCmd = &cobra.Command{
	Use:   "trending [query]",
	Short: "List repositories worth contributing to",
	Long: `Search for repositories sorted by stars. Without a query, lists popular
repositories that are friendly to new contributors.

Example:
  gitscout trending "language:go topic:cli"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

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

		repos, err := githubClient.SearchRepositories(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to search repositories: %w", err)
		}

		for _, repo := range repos {
			marker := " "
			if a.manager.IsTracked(repo.Ref.ID()) {
				marker = "*"
			}
			lang := repo.Language
			if lang == "" {
				lang = "-"
			}
			fmt.Printf("%s %-40s %8d stars  %-12s %s\n",
				marker, repo.Title, repo.Stars, lang, truncate(repo.Description, 60))
		}

		return nil
	},
}

// truncate shortens s to at most n characters, slicing on runes so a
// multibyte description is never cut mid-character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(trendingCmd)
}
