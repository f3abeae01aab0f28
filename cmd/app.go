package cmd

import (
	"fmt"

	"github.com/velvetrock/gitscout/internal/config"
	"github.com/velvetrock/gitscout/internal/enrich"
	"github.com/velvetrock/gitscout/internal/github"
	"github.com/velvetrock/gitscout/internal/insight"
	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/internal/notify"
	"github.com/velvetrock/gitscout/internal/tracking"
)

// app bundles the wired components a command needs. Commands build only
// the collaborators they actually use.
type app struct {
	cfg      *config.Config
	notifier notify.Notifier
	store    *tracking.Store
	manager  *tracking.Manager
}

// newApp wires configuration, notification and the tracking layer.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	notifier := buildNotifier(cfg)

	store, err := tracking.OpenStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracking store: %w", err)
	}

	return &app{
		cfg:      cfg,
		notifier: notifier,
		store:    store,
		manager:  tracking.NewManager(store, notifier),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logging.Warn("failed to close tracking store", "error", err)
	}
}

// buildNotifier always logs; Telegram delivery joins in when configured.
func buildNotifier(cfg *config.Config) notify.Notifier {
	sinks := notify.Multi{notify.LogNotifier{}}

	if config.ValidateTelegramConfig(cfg) == nil {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram)
		if err != nil {
			logging.Warn("telegram notifier unavailable", "error", err)
		} else {
			sinks = append(sinks, tg)
		}
	}

	return sinks
}

// newGitHubClient creates the source-data collaborator.
func (a *app) newGitHubClient() (*github.Client, error) {
	client, err := github.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize github client: %w", err)
	}
	return client, nil
}

// newOrchestrator creates the insight store and orchestrator over the
// Anthropic enricher.
func (a *app) newOrchestrator() (*insight.Orchestrator, error) {
	enricher, err := enrich.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize enrichment client: %w", err)
	}
	return insight.NewOrchestrator(insight.NewStore(), enricher, a.notifier), nil
}
