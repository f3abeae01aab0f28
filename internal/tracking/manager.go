// Package tracking owns the tracked-entity state and its persistence.
// The manager applies optimistic updates with a defined rollback path;
// the store is the remote-facing record of what is tracked.
package tracking

import (
	"context"
	"sync"

	"github.com/velvetrock/gitscout/internal/fault"
	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/internal/notify"
	"github.com/velvetrock/gitscout/pkg/models"
)

// RemoteStore is the tracking-store collaborator contract. Errors returned
// by mutating operations carry a fault kind.
type RemoteStore interface {
	ListTrackedIDs(ctx context.Context) ([]string, error)
	AddTracked(ctx context.Context, ref models.EntityRef) error
	GetUserRecord(ctx context.Context, id string) (*models.UserIssueRecord, error)
	SaveUserRecord(ctx context.Context, rec models.UserIssueRecord) error
}

// Manager owns the TrackingState map. It is the only writer; readers go
// through IsTracked and StateOf.
type Manager struct {
	store    RemoteStore
	notifier notify.Notifier

	mu     sync.Mutex
	states map[string]models.TrackingState
}

// NewManager creates a manager over a tracking store.
func NewManager(store RemoteStore, notifier notify.Notifier) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		states:   make(map[string]models.TrackingState),
	}
}

// Track adds an entity to the tracked set. The pending state is applied
// before the store call is dispatched, so a duplicate invocation arriving
// before the first settles observes pending and issues no second call.
//
// Outcomes:
//   - success: tracked
//   - conflict (already tracked server-side): tracked, informational notice
//   - validation or server failure: track-failed (reads as untracked), the
//     classified error is returned after local rollback
func (m *Manager) Track(ctx context.Context, ref models.EntityRef) (models.TrackingState, error) {
	id := ref.ID()

	m.mu.Lock()
	switch m.states[id] {
	case models.StateTracked, models.StateTrackingPending:
		state := m.states[id]
		m.mu.Unlock()
		logging.Debug("duplicate track ignored", "entity", id, "state", state)
		m.notifier.Notify("Already tracking", id)
		return state, nil
	}
	m.states[id] = models.StateTrackingPending
	m.mu.Unlock()

	err := m.store.AddTracked(ctx, ref)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		m.states[id] = models.StateTracked
		m.notifier.Notify("Tracking "+id, "Added to your tracked list.")
		return models.StateTracked, nil
	}

	kind := fault.KindOf(err)
	if kind == fault.KindConflict {
		// The server already agrees, so the optimistic state stands.
		m.states[id] = models.StateTracked
		logging.Debug("track conflict treated as tracked", "entity", id)
		m.notifier.Notify("Already tracking", id)
		return models.StateTracked, nil
	}

	m.states[id] = models.StateTrackFailed
	logging.Warn("track failed, rolled back", "entity", id, "kind", kind, "error", err)
	switch kind {
	case fault.KindValidation:
		m.notifier.Notify("Could not track "+id, "The reference looks malformed.")
	default:
		m.notifier.Notify("Could not track "+id, "Something went wrong, try again.")
	}
	return models.StateTrackFailed, err
}

// IsTracked reports whether the entity is tracked, counting an optimistic
// pending state as tracked.
func (m *Manager) IsTracked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.states[id]
	return s == models.StateTracked || s == models.StateTrackingPending
}

// StateOf returns the exact tracking state for callers that must
// distinguish confirmed from optimistic.
func (m *Manager) StateOf(id string) models.TrackingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[id]; ok {
		return s
	}
	return models.StateUntracked
}

// TrackedIDs returns the ids currently confirmed or pending, in no
// particular order.
func (m *Manager) TrackedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.states {
		if s == models.StateTracked || s == models.StateTrackingPending {
			ids = append(ids, id)
		}
	}
	return ids
}

// Refresh seeds the local state from the store's tracked-id list. Entities
// mid-flight keep their pending state.
func (m *Manager) Refresh(ctx context.Context) error {
	ids, err := m.store.ListTrackedIDs(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.states {
		if s == models.StateTracked {
			delete(m.states, id)
		}
	}
	for _, id := range ids {
		if m.states[id] != models.StateTrackingPending {
			m.states[id] = models.StateTracked
		}
	}

	logging.Debug("tracking state refreshed", "count", len(ids))
	return nil
}

// UserRecord fetches the user's progress record for a tracked issue.
func (m *Manager) UserRecord(ctx context.Context, id string) (*models.UserIssueRecord, error) {
	return m.store.GetUserRecord(ctx, id)
}

// SaveUserRecord persists a progress record. The store refuses to
// overwrite a newer server-side record with a stale local one.
func (m *Manager) SaveUserRecord(ctx context.Context, rec models.UserIssueRecord) error {
	return m.store.SaveUserRecord(ctx, rec)
}
