package insight

import (
	"context"
	"sync"
	"time"

	"github.com/velvetrock/gitscout/internal/fault"
	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/internal/notify"
	"github.com/velvetrock/gitscout/pkg/models"
)

// Tier selects the enrichment depth.
type Tier string

const (
	// TierBasic populates summary-level fields.
	TierBasic Tier = "basic"
	// TierAdvanced populates the deeper guidance fields.
	TierAdvanced Tier = "advanced"
)

// User-visible reasons attached to blocked request states.
const (
	ReasonQuota     = "AI usage limit reached."
	ReasonForbidden = "AI insight is unavailable for your account. Contact support."
	ReasonUnknown   = "AI insight is temporarily unavailable."
)

// Enricher is the AI collaborator contract.
type Enricher interface {
	EnrichBasic(ctx context.Context, entity models.Entity) (models.AIInsight, error)
	EnrichAdvanced(ctx context.Context, entity models.Entity) (models.AIInsight, error)
}

// DefaultTimeout bounds a single enrichment call. A call that exceeds it
// settles into the blocked:unknown branch instead of pending forever.
const DefaultTimeout = 90 * time.Second

type inflightKey struct {
	id   string
	tier Tier
}

// Orchestrator drives the per-entity enrichment lifecycle. It is the sole
// writer of request states and of insight data (through the store).
//
// Requests are coalesced per (entity id, tier): while one is in flight,
// further calls for the same key are no-ops. Every dispatch takes a token
// keyed the same way; a response whose token is no longer the latest for
// its key is discarded, so a superseded call can never clobber newer state
// while the sibling tier's outstanding response still lands.
type Orchestrator struct {
	store    *Store
	enricher Enricher
	notifier notify.Notifier
	timeout  time.Duration

	mu       sync.Mutex
	states   map[string]models.RequestState
	reasons  map[string]string
	inflight map[inflightKey]uint64
	tokens   map[inflightKey]uint64
}

// NewOrchestrator wires an orchestrator to its store, enricher and notifier.
func NewOrchestrator(store *Store, enricher Enricher, notifier notify.Notifier) *Orchestrator {
	return &Orchestrator{
		store:    store,
		enricher: enricher,
		notifier: notifier,
		timeout:  DefaultTimeout,
		states:   make(map[string]models.RequestState),
		reasons:  make(map[string]string),
		inflight: make(map[inflightKey]uint64),
		tokens:   make(map[inflightKey]uint64),
	}
}

// SetTimeout overrides the per-call timeout. Used in tests.
func (o *Orchestrator) SetTimeout(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timeout = d
}

// RequestBasic requests the basic enrichment tier for an entity.
func (o *Orchestrator) RequestBasic(ctx context.Context, entity models.Entity) {
	o.request(ctx, entity, TierBasic)
}

// RequestAdvanced requests the advanced enrichment tier for an entity.
func (o *Orchestrator) RequestAdvanced(ctx context.Context, entity models.Entity) {
	o.request(ctx, entity, TierAdvanced)
}

func (o *Orchestrator) request(ctx context.Context, entity models.Entity, tier Tier) {
	id := entity.Ref.ID()
	key := inflightKey{id: id, tier: tier}

	o.mu.Lock()
	if _, busy := o.inflight[key]; busy {
		o.mu.Unlock()
		logging.Debug("enrichment request coalesced", "entity", id, "tier", tier)
		return
	}
	if state := o.states[id]; state.Blocked() {
		o.mu.Unlock()
		logging.Debug("enrichment blocked until resync", "entity", id, "state", state)
		return
	}
	o.tokens[key]++
	token := o.tokens[key]
	o.inflight[key] = token
	o.states[id] = models.RequestPending
	timeout := o.timeout
	o.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		partial models.AIInsight
		err     error
	)
	if tier == TierAdvanced {
		partial, err = o.enricher.EnrichAdvanced(cctx, entity)
	} else {
		partial, err = o.enricher.EnrichBasic(cctx, entity)
	}

	o.settle(id, key, token, partial, err)
}

// settle applies one response, keyed strictly by the originating entity id,
// tier and dispatch token.
func (o *Orchestrator) settle(id string, key inflightKey, token uint64, partial models.AIInsight, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inflight[key] == token {
		delete(o.inflight, key)
	}
	if o.tokens[key] != token {
		logging.Debug("discarding superseded enrichment response", "entity", id, "tier", key.tier)
		return
	}

	if err == nil {
		o.store.Merge(id, partial)
		o.states[id] = models.RequestReady
		delete(o.reasons, id)
		logging.Debug("enrichment ready", "entity", id, "tier", key.tier)
		return
	}

	switch fault.KindOf(err) {
	case fault.KindQuotaExceeded:
		o.states[id] = models.RequestBlockedQuota
		o.reasons[id] = ReasonQuota
	case fault.KindForbidden:
		o.states[id] = models.RequestBlockedForbidden
		o.reasons[id] = ReasonForbidden
	default:
		o.states[id] = models.RequestBlockedUnknown
		o.reasons[id] = ReasonUnknown
	}

	logging.Warn("enrichment failed",
		"entity", id,
		"tier", key.tier,
		"state", o.states[id],
		"error", err)
	o.notifier.Notify("AI insight unavailable", o.reasons[id])
}

// StateOf returns the request state for an entity id.
func (o *Orchestrator) StateOf(id string) models.RequestState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.states[id]; ok {
		return s
	}
	return models.RequestNone
}

// ReasonOf returns the user-visible reason for a blocked entity, or "".
func (o *Orchestrator) ReasonOf(id string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reasons[id]
}

// InsightOf returns the stored insight for an entity id, if any.
func (o *Orchestrator) InsightOf(id string) (models.AIInsight, bool) {
	return o.store.Get(id)
}

// Resync re-arms enrichment for an entity: the request state returns to
// none, the blocked reason is cleared, and both tiers' dispatch tokens
// advance so a still-outstanding call for the entity is superseded rather
// than merely duplicated.
func (o *Orchestrator) Resync(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.states[id] = models.RequestNone
	delete(o.reasons, id)
	for _, tier := range []Tier{TierBasic, TierAdvanced} {
		key := inflightKey{id: id, tier: tier}
		o.tokens[key]++
		delete(o.inflight, key)
	}
}

// ResyncAll re-arms every entity currently in a blocked state. Returns the
// ids that were re-armed.
func (o *Orchestrator) ResyncAll() []string {
	o.mu.Lock()
	var blocked []string
	for id, s := range o.states {
		if s.Blocked() {
			blocked = append(blocked, id)
		}
	}
	o.mu.Unlock()

	for _, id := range blocked {
		o.Resync(id)
	}
	return blocked
}
