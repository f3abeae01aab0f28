package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/velvetrock/gitscout/internal/notify"
	"github.com/velvetrock/gitscout/internal/syncer"
	"github.com/velvetrock/gitscout/internal/tracking"
	"github.com/velvetrock/gitscout/pkg/models"
)

// fakeLister implements repoLister for testing.
type fakeLister struct {
	SearchRepositoriesFunc func(context.Context, string) ([]models.Entity, error)
}

func (f *fakeLister) SearchRepositories(ctx context.Context, query string) ([]models.Entity, error) {
	if f.SearchRepositoriesFunc != nil {
		return f.SearchRepositoriesFunc(ctx, query)
	}
	return nil, errors.New("SearchRepositories not implemented")
}

func testApp(t *testing.T) *app {
	t.Helper()
	store, err := tracking.OpenStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &app{
		notifier: notify.Nop{},
		store:    store,
		manager:  tracking.NewManager(store, notify.Nop{}),
	}
}

func TestSyncTasksAllSucceed(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	// One tracked issue so the user-records task has something to load.
	if _, err := a.manager.Track(ctx, models.EntityRef{
		Repository: "owner/repo", Number: 1, Kind: models.KindIssue,
	}); err != nil {
		t.Fatalf("track: %v", err)
	}

	lister := &fakeLister{
		SearchRepositoriesFunc: func(ctx context.Context, query string) ([]models.Entity, error) {
			return []models.Entity{{Title: "owner/other"}}, nil
		},
	}

	coordinator := syncer.NewCoordinator(notify.Nop{})
	results := coordinator.LoadAll(ctx, syncTasks(a, lister)...)

	if len(results) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("task %s failed: %v", r.Name, r.Err)
		}
	}
	if !a.manager.IsTracked("owner/repo#1") {
		t.Error("expected tracked id to survive the refresh")
	}
}

func TestSyncTasksListingFailureDoesNotAbortOthers(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	lister := &fakeLister{
		SearchRepositoriesFunc: func(ctx context.Context, query string) ([]models.Entity, error) {
			return nil, errors.New("search unavailable")
		},
	}

	coordinator := syncer.NewCoordinator(notify.Nop{})
	results := coordinator.LoadAll(ctx, syncTasks(a, lister)...)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if r.Name != "listing" {
				t.Errorf("unexpected failing task: %s", r.Name)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly the listing task to fail, got %d failures", failed)
	}
	if coordinator.IsLoading() {
		t.Error("expected loading cleared despite partial failure")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}
	long := truncate("abcdefghijklmnopqrstuvwxyz", 10)
	if len(long) != 10 || long[7:] != "..." {
		t.Errorf("expected 10 chars ending in ellipsis, got %q", long)
	}
	// Rune-aware: a multibyte description must not be cut mid-character.
	wide := truncate("ひらがなとカタカナのまざったせつめい", 10)
	if got := []rune(wide); len(got) != 10 || string(got[7:]) != "..." {
		t.Errorf("expected 10 runes ending in ellipsis, got %q", wide)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Errorf("expected bare prefix for tiny width, got %q", got)
	}
}
