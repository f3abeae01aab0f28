package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/internal/syncer"
	"github.com/velvetrock/gitscout/pkg/models"
)

// syncCmd refreshes everything the dashboard shows in one batch: the
// tracked-id list, the repository listing, and the progress records of
// tracked issues. The fetches run concurrently and a failed one never
// stops the others.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh tracked ids, listings and progress records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		githubClient, err := a.newGitHubClient()
		if err != nil {
			return err
		}

		coordinator := syncer.NewCoordinator(a.notifier)
		results := coordinator.LoadAll(cmd.Context(), syncTasks(a, githubClient)...)

		failed := 0
		for _, r := range results {
			status := "ok"
			if r.Err != nil {
				status = r.Err.Error()
				failed++
			}
			fmt.Printf("  %-14s %s\n", r.Name, status)
		}
		fmt.Printf("  tracking %d entities\n", len(a.manager.TrackedIDs()))
		logging.Debug("sync results printed", "failed", failed)

		return nil
	},
}

// repoLister is the slice of the source client the sync batch needs.
type repoLister interface {
	SearchRepositories(ctx context.Context, query string) ([]models.Entity, error)
}

// syncTasks assembles the refresh batch.
func syncTasks(a *app, lister repoLister) []syncer.Task {
	return []syncer.Task{
		{
			Name: "tracked-ids",
			Run: func(ctx context.Context) error {
				return a.manager.Refresh(ctx)
			},
		},
		{
			Name: "listing",
			Run: func(ctx context.Context) error {
				repos, err := lister.SearchRepositories(ctx, "")
				if err != nil {
					return err
				}
				logging.Debug("listing refreshed", "count", len(repos))
				return nil
			},
		},
		{
			// Reads the store directly so the task does not depend on
			// tracked-ids having settled first.
			Name: "user-records",
			Run: func(ctx context.Context) error {
				ids, err := a.store.ListTrackedIDs(ctx)
				if err != nil {
					return err
				}
				var failures []string
				for _, id := range ids {
					if !strings.Contains(id, "#") {
						continue // repositories carry no progress record
					}
					if _, err := a.manager.UserRecord(ctx, id); err != nil {
						failures = append(failures, id)
					}
				}
				if len(failures) > 0 {
					return fmt.Errorf("failed to load records for: %s", strings.Join(failures, ", "))
				}
				return nil
			},
		},
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
