// Package insight holds per-entity AI insight data and drives its
// on-demand enrichment lifecycle.
package insight

import (
	"sync"

	"github.com/velvetrock/gitscout/pkg/models"
)

// Store caches AI insight per entity id. The orchestrator is the only
// writer; readers get copies through Get.
type Store struct {
	mu   sync.RWMutex
	data map[string]models.AIInsight
}

// NewStore creates an empty insight store.
func NewStore() *Store {
	return &Store{data: make(map[string]models.AIInsight)}
}

// Get returns the insight for an entity id and whether any exists.
func (s *Store) Get(id string) (models.AIInsight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.data[id]
	return in, ok
}

// Merge folds a partial response into the stored record for the entity.
// Fields absent from the response never erase previously populated ones.
func (s *Store) Merge(id string, in models.AIInsight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = s.data[id].Merge(in)
}

// Discard drops the stored insight for an entity id.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}
