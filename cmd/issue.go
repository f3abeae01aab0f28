package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velvetrock/gitscout/pkg/models"
)

// issueCmd groups the progress-record subcommands for tracked issues.
var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Update your progress on a tracked issue",
}

var issueStatusCmd = &cobra.Command{
	Use:   "status [issue-number] [not-started|in-progress|completed]",
	Short: "Set the progress status of a tracked issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.IssueStatus(args[1])
		switch status {
		case models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted:
		default:
			return fmt.Errorf("invalid status: %s", args[1])
		}

		return updateRecord(cmd, args[0], func(rec *models.UserIssueRecord) {
			rec.Status = status
		})
	},
}

var issueNotesCmd = &cobra.Command{
	Use:   "notes [issue-number] [text...]",
	Short: "Replace the notes on a tracked issue",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := strings.Join(args[1:], " ")
		return updateRecord(cmd, args[0], func(rec *models.UserIssueRecord) {
			rec.Notes = notes
		})
	},
}

// updateRecord loads the server-side record, applies the change, and saves
// it back. Reading first keeps the save from clobbering a newer record
// with stale local state.
func updateRecord(cmd *cobra.Command, issueArg string, apply func(*models.UserIssueRecord)) error {
	repository, err := cmd.Flags().GetString("repository")
	if err != nil {
		return err
	}
	if repository == "" {
		return fmt.Errorf("repository flag is required")
	}
	number, err := strconv.Atoi(issueArg)
	if err != nil {
		return fmt.Errorf("invalid issue number: %s", issueArg)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	id := models.EntityRef{Repository: repository, Number: number, Kind: models.KindIssue}.ID()

	rec, err := a.manager.UserRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("no progress record for %s (is it tracked?): %w", id, err)
	}

	apply(rec)

	if err := a.manager.SaveUserRecord(ctx, *rec); err != nil {
		return fmt.Errorf("failed to save record for %s: %w", id, err)
	}

	fmt.Printf("%s: %s\n", id, rec.Status)
	return nil
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.AddCommand(issueStatusCmd)
	issueCmd.AddCommand(issueNotesCmd)
}
