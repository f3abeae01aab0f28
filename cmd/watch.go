package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/internal/syncer"
)

// insightRefreshLimit caps how many listed repositories a watch tick
// enriches, keeping scheduled runs inside the AI usage budget.
const insightRefreshLimit = 3

// watchCmd runs the sync batch on a schedule until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically refresh the dashboard",
	Long: `Run the sync batch on a cron schedule until interrupted.

Example:
  gitscout watch --schedule "@every 30m"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule, err := cmd.Flags().GetString("schedule")
		if err != nil {
			return err
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

		coordinator := syncer.NewCoordinator(a.notifier)
		ctx := cmd.Context()

		// Insight enrichment rides along when the AI collaborator is
		// configured; the watch still works without it.
		orchestrator, err := a.newOrchestrator()
		if err != nil {
			logging.Warn("insight enrichment disabled for this watch", "error", err)
			orchestrator = nil
		}

		runSync := func() {
			if coordinator.IsLoading() {
				logging.Debug("sync still running, skipping tick")
				return
			}
			coordinator.LoadAll(ctx, syncTasks(a, githubClient)...)

			if orchestrator == nil {
				return
			}
			// A fresh tick re-arms whatever a quota or permission
			// failure blocked last time around.
			if rearmed := orchestrator.ResyncAll(); len(rearmed) > 0 {
				logging.Info("re-armed blocked insight", "count", len(rearmed))
			}
			repos, err := githubClient.SearchRepositories(ctx, "")
			if err != nil {
				logging.Warn("skipping insight refresh", "error", err)
				return
			}
			for i, repo := range repos {
				if i >= insightRefreshLimit {
					break
				}
				go orchestrator.RequestBasic(ctx, repo)
			}
		}

		c := cron.New()
		if _, err := c.AddFunc(schedule, runSync); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}

		logging.Info("watch started", "schedule", schedule)
		runSync()
		c.Start()
		defer c.Stop()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logging.Info("watch stopped")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("schedule", "@every 30m", "cron schedule for the refresh")
}
