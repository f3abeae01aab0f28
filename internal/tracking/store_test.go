package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetrock/gitscout/internal/fault"
	"github.com/velvetrock/gitscout/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddTrackedAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTracked(ctx, issueRef(1)))
	require.NoError(t, s.AddTracked(ctx, models.EntityRef{
		Repository: "owner/repo", Kind: models.KindRepository,
	}))

	ids, err := s.ListTrackedIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"owner/repo#1", "owner/repo"}, ids)
}

func TestAddTrackedConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTracked(ctx, issueRef(1)))
	err := s.AddTracked(ctx, issueRef(1))

	require.Error(t, err)
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))
}

func TestAddTrackedValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		ref  models.EntityRef
	}{
		{name: "missing owner", ref: models.EntityRef{Repository: "repo", Kind: models.KindRepository}},
		{name: "empty owner", ref: models.EntityRef{Repository: "/repo", Kind: models.KindRepository}},
		{name: "zero issue number", ref: models.EntityRef{Repository: "owner/repo", Kind: models.KindIssue}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddTracked(ctx, tt.ref)
			require.Error(t, err)
			assert.Equal(t, fault.KindValidation, fault.KindOf(err))
		})
	}
}

func TestTrackedIssueGetsSeedRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTracked(ctx, issueRef(5)))

	rec, err := s.GetUserRecord(ctx, "owner/repo#5")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, rec.Status)
	assert.Empty(t, rec.Notes)
}

func TestTrackedRepositoryHasNoRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTracked(ctx, models.EntityRef{
		Repository: "owner/repo", Kind: models.KindRepository,
	}))

	_, err := s.GetUserRecord(ctx, "owner/repo")
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestSaveUserRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTracked(ctx, issueRef(5)))

	rec, err := s.GetUserRecord(ctx, "owner/repo#5")
	require.NoError(t, err)

	rec.Status = models.StatusInProgress
	rec.Notes = "reproduced locally"
	require.NoError(t, s.SaveUserRecord(ctx, *rec))

	got, err := s.GetUserRecord(ctx, "owner/repo#5")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, "reproduced locally", got.Notes)
}

func TestSaveUserRecordRefusesStaleWrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTracked(ctx, issueRef(5)))

	fresh, err := s.GetUserRecord(ctx, "owner/repo#5")
	require.NoError(t, err)

	// A save bumps last_synced_at server-side.
	fresh.Status = models.StatusInProgress
	require.NoError(t, s.SaveUserRecord(ctx, *fresh))

	// A writer still holding the old record is stale now.
	stale := *fresh
	stale.Status = models.StatusCompleted
	stale.LastSyncedAt = fresh.LastSyncedAt.Add(-time.Hour)

	err = s.SaveUserRecord(ctx, stale)
	require.Error(t, err)
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))

	got, err := s.GetUserRecord(ctx, "owner/repo#5")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status, "stale write must not overwrite the newer value")
}

func TestSaveUserRecordUnknownEntity(t *testing.T) {
	s := openTestStore(t)

	err := s.SaveUserRecord(context.Background(), models.UserIssueRecord{
		EntityID: "owner/repo#404", Status: models.StatusInProgress, LastSyncedAt: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestRemoveTracked(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddTracked(ctx, issueRef(5)))
	require.NoError(t, s.RemoveTracked(ctx, "owner/repo#5"))

	ids, err := s.ListTrackedIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.GetUserRecord(ctx, "owner/repo#5")
	require.Error(t, err)
}
