package tracking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/velvetrock/gitscout/internal/classify"
	"github.com/velvetrock/gitscout/internal/insight"
	"github.com/velvetrock/gitscout/internal/notify"
	"github.com/velvetrock/gitscout/internal/tracking"
	"github.com/velvetrock/gitscout/pkg/models"
)

type scriptedEnricher struct {
	basic func(context.Context, models.Entity) (models.AIInsight, error)
}

func (s *scriptedEnricher) EnrichBasic(ctx context.Context, e models.Entity) (models.AIInsight, error) {
	return s.basic(ctx, e)
}

func (s *scriptedEnricher) EnrichAdvanced(ctx context.Context, e models.Entity) (models.AIInsight, error) {
	return models.AIInsight{}, nil
}

// TestTrackThenEnrichFlow walks the full user journey: track an untracked
// issue, observe the optimistic state, confirm it, then request basic
// insight and read it back through the classifier.
func TestTrackThenEnrichFlow(t *testing.T) {
	ctx := context.Background()

	store, err := tracking.OpenStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	manager := tracking.NewManager(store, notify.Nop{})

	entity := models.Entity{
		Ref:   models.EntityRef{Repository: "owner/repo", Number: 1, Kind: models.KindIssue},
		Title: "panic on empty config",
	}
	id := entity.Ref.ID()

	if manager.IsTracked(id) {
		t.Fatal("expected E1 to start untracked")
	}

	// Track with a gate on the store call so the optimistic state is
	// observable mid-flight.
	gate := make(chan struct{})
	gated := &gatedStore{Store: store, gate: gate}
	gatedManager := tracking.NewManager(gated, notify.Nop{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gatedManager.Track(ctx, entity.Ref)
	}()

	deadline := time.Now().Add(time.Second)
	for gatedManager.StateOf(id) != models.StateTrackingPending && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := gatedManager.StateOf(id); got != models.StateTrackingPending {
		t.Fatalf("expected tracking-pending mid-flight, got %s", got)
	}
	if !gatedManager.IsTracked(id) {
		t.Error("expected optimistically tracked while pending")
	}

	close(gate)
	wg.Wait()

	if got := gatedManager.StateOf(id); got != models.StateTracked {
		t.Fatalf("expected tracked after settle, got %s", got)
	}

	// Enrich.
	score := 92
	enricher := &scriptedEnricher{
		basic: func(ctx context.Context, e models.Entity) (models.AIInsight, error) {
			return models.AIInsight{Difficulty: "easy", MatchScore: &score}, nil
		},
	}
	orchestrator := insight.NewOrchestrator(insight.NewStore(), enricher, notify.Nop{})

	orchestrator.RequestBasic(ctx, entity)

	if got := orchestrator.StateOf(id); got != models.RequestReady {
		t.Fatalf("expected ready, got %s", got)
	}
	in, ok := orchestrator.InsightOf(id)
	if !ok {
		t.Fatal("expected insight to exist")
	}
	if got := classify.Difficulty(in.Difficulty); got != "easy" {
		t.Errorf("expected difficulty easy, got %s", got)
	}
	if got := classify.MatchBucket(*in.MatchScore); got != "high" {
		t.Errorf("expected match bucket high for 92, got %s", got)
	}
}

// gatedStore delays AddTracked until the gate opens.
type gatedStore struct {
	*tracking.Store
	gate chan struct{}
}

func (g *gatedStore) AddTracked(ctx context.Context, ref models.EntityRef) error {
	<-g.gate
	return g.Store.AddTracked(ctx, ref)
}
