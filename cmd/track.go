package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/pkg/models"
)

// trackCmd adds a repository or one of its issues to the tracked list.
var trackCmd = &cobra.Command{
	Use:   "track [issue-number]",
	Short: "Track a repository or issue",
	Long: `Add a repository, or a single issue of it, to your tracked list.

The tracked state is applied optimistically and rolled back if the store
rejects the reference. Tracking something already tracked is a no-op.

Examples:
  gitscout track -r owner/repo        # track the repository
  gitscout track -r owner/repo 123    # track issue #123`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repository, err := cmd.Flags().GetString("repository")
		if err != nil {
			return err
		}
		if repository == "" {
			return fmt.Errorf("repository flag is required")
		}

		ref := models.EntityRef{Repository: repository, Kind: models.KindRepository}
		if len(args) == 1 {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue number: %s", args[0])
			}
			ref = models.EntityRef{Repository: repository, Number: number, Kind: models.KindIssue}
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if err := a.manager.Refresh(ctx); err != nil {
			logging.Warn("failed to refresh tracked ids", "error", err)
		}

		state, err := a.manager.Track(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to track %s: %w", ref.ID(), err)
		}

		fmt.Printf("%s: %s\n", ref.ID(), state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
}
