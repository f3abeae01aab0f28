package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velvetrock/gitscout/internal/classify"
	"github.com/velvetrock/gitscout/internal/insight"
	"github.com/velvetrock/gitscout/pkg/models"
)

// insightCmd requests AI enrichment for an issue or repository and prints
// the resulting insight with its derived buckets.
var insightCmd = &cobra.Command{
	Use:   "insight [issue-number]",
	Short: "Attach AI-generated insight to a repository or issue",
	Long: `Request AI-generated insight for a repository or one of its issues.

The basic tier populates difficulty, skill match, time estimate, skills and
a summary. With --advanced, a second tier adds the likely cause, a suggested
approach, files worth exploring and quality scores. When the AI collaborator
is unavailable (usage limit, permissions), whatever insight already exists is
still printed, together with the reason the rest is locked.

Example:
  gitscout insight -r owner/repo 123 --advanced`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repository, err := cmd.Flags().GetString("repository")
		if err != nil {
			return err
		}
		advanced, err := cmd.Flags().GetBool("advanced")
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
		orchestrator, err := a.newOrchestrator()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		var entity models.Entity
		if len(args) == 1 {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue number: %s", args[0])
			}
			entity, err = githubClient.GetIssue(ctx, repository, number)
			if err != nil {
				return fmt.Errorf("failed to fetch issue: %w", err)
			}
		} else {
			entity, err = githubClient.GetRepository(ctx, repository)
			if err != nil {
				return fmt.Errorf("failed to fetch repository: %w", err)
			}
		}

		id := entity.Ref.ID()

		orchestrator.RequestBasic(ctx, entity)
		if advanced {
			orchestrator.RequestAdvanced(ctx, entity)
		}

		printInsight(id, entity, orchestrator)
		return nil
	},
}

// printInsight renders whatever insight exists. A blocked state never
// suppresses previously gathered data; it adds a locked line instead.
func printInsight(id string, entity models.Entity, o *insight.Orchestrator) {
	fmt.Printf("%s — %s\n\n", id, entity.Title)

	in, ok := o.InsightOf(id)
	if ok {
		if in.Difficulty != "" {
			fmt.Printf("  difficulty:  %s\n", classify.Difficulty(in.Difficulty))
		}
		if in.MatchScore != nil {
			fmt.Printf("  match:       %s (%d/100)\n", classify.MatchBucket(*in.MatchScore), *in.MatchScore)
		}
		if in.EstimatedTime != "" {
			fmt.Printf("  estimate:    %s\n", in.EstimatedTime)
		}
		if len(in.Skills) > 0 {
			fmt.Printf("  skills:      %s\n", strings.Join(in.Skills, ", "))
		}
		if in.ActivityLevel != "" {
			fmt.Printf("  activity:    %s\n", in.ActivityLevel)
		}
		if in.Summary != "" {
			fmt.Printf("\n  %s\n", in.Summary)
		}
		if in.Cause != "" {
			fmt.Printf("\n  Likely cause:\n  %s\n", in.Cause)
		}
		if len(in.Approach) > 0 {
			fmt.Println("\n  Suggested approach:")
			for i, step := range in.Approach {
				fmt.Printf("  %d. %s\n", i+1, step)
			}
		}
		if len(in.FilesToExplore) > 0 {
			fmt.Println("\n  Files to explore:")
			for _, f := range in.FilesToExplore {
				fmt.Printf("  - %s\n", f)
			}
		}
		if in.CodeQuality != nil {
			fmt.Printf("\n  code quality:    %d/100\n", *in.CodeQuality)
		}
		if in.CommunityScore != nil {
			fmt.Printf("  community score: %d/100\n", *in.CommunityScore)
		}
	}

	if state := o.StateOf(id); state.Blocked() {
		fmt.Printf("\n  [locked] %s\n", o.ReasonOf(id))
	} else if !ok {
		fmt.Println("  no insight available")
	}
}

func init() {
	rootCmd.AddCommand(insightCmd)
	insightCmd.Flags().Bool("advanced", false, "also request the advanced insight tier")
}
