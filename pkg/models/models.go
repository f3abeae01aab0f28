// Package models defines data structures shared across the application.
package models

import (
	"fmt"
	"strings"
	"time"
)

// EntityKind distinguishes the two trackable unit types.
type EntityKind string

const (
	KindIssue      EntityKind = "issue"
	KindRepository EntityKind = "repository"
)

// EntityRef identifies an issue or repository on the source host.
// Repository references have Number == 0.
type EntityRef struct {
	// Repository is the full name, e.g. "owner/repo"
	Repository string

	// Number is the issue number within the repository, 0 for repositories
	Number int

	Kind EntityKind
}

// ID returns the stable identifier used to key all per-entity state.
func (r EntityRef) ID() string {
	if r.Kind == KindIssue {
		return fmt.Sprintf("%s#%d", r.Repository, r.Number)
	}
	return r.Repository
}

// Validate checks that the reference is well-formed ("owner/repo" plus a
// positive issue number for issues).
func (r EntityRef) Validate() error {
	parts := strings.Split(r.Repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid repository format: %s, expected format: owner/repo", r.Repository)
	}
	if r.Kind == KindIssue && r.Number <= 0 {
		return fmt.Errorf("invalid issue number: %d", r.Number)
	}
	if r.Kind != KindIssue && r.Kind != KindRepository {
		return fmt.Errorf("invalid entity kind: %s", r.Kind)
	}
	return nil
}

// Entity is a trackable unit from a source listing. The core never mutates
// it beyond attaching insight keyed by its ID.
type Entity struct {
	Ref EntityRef

	// Title is the issue title or repository full name
	Title string

	// Description is the issue body or repository description
	Description string

	// State is the source-side state ("open", "closed")
	State string

	// Labels is a slice of label names attached to the entity
	Labels []string

	// Stars is the stargazer count for repositories, 0 for issues
	Stars int

	// Language is the repository's primary language
	Language string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackingState is the lifecycle of a tracked entity, owned exclusively
// by the tracking manager.
type TrackingState string

const (
	StateUntracked       TrackingState = "untracked"
	StateTrackingPending TrackingState = "tracking-pending"
	StateTracked         TrackingState = "tracked"
	StateTrackFailed     TrackingState = "track-failed"
)

// RequestState is the lifecycle of an enrichment request, owned exclusively
// by the insight orchestrator.
type RequestState string

const (
	RequestNone             RequestState = "none"
	RequestPending          RequestState = "pending"
	RequestReady            RequestState = "ready"
	RequestBlockedQuota     RequestState = "blocked:quota"
	RequestBlockedForbidden RequestState = "blocked:forbidden"
	RequestBlockedUnknown   RequestState = "blocked:unknown"
)

// Blocked reports whether the state is one of the blocked:* variants.
func (s RequestState) Blocked() bool {
	return s == RequestBlockedQuota || s == RequestBlockedForbidden || s == RequestBlockedUnknown
}

// AIInsight is a partial, tiered record of AI-derived data for one entity.
// A basic enrichment call populates summary-level fields, an advanced call
// the deeper guidance fields. Absent fields are the zero value (nil for
// the score pointers so a present 0 survives a merge).
type AIInsight struct {
	Difficulty     string   `json:"difficulty,omitempty"`
	MatchScore     *int     `json:"match_score,omitempty"`
	EstimatedTime  string   `json:"estimated_time,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	Cause          string   `json:"cause,omitempty"`
	Approach       []string `json:"approach,omitempty"`
	FilesToExplore []string `json:"files_to_explore,omitempty"`
	ActivityLevel  string   `json:"activity_level,omitempty"`
	CodeQuality    *int     `json:"code_quality,omitempty"`
	CommunityScore *int     `json:"community_score,omitempty"`
}

// Merge combines a newer partial response into the receiver. The merge is
// a field-wise union: incoming values win only where present, and a field
// already populated is never discarded because the new response left it
// absent.
func (i AIInsight) Merge(in AIInsight) AIInsight {
	out := i
	if in.Difficulty != "" {
		out.Difficulty = in.Difficulty
	}
	if in.MatchScore != nil {
		out.MatchScore = in.MatchScore
	}
	if in.EstimatedTime != "" {
		out.EstimatedTime = in.EstimatedTime
	}
	if len(in.Skills) > 0 {
		out.Skills = in.Skills
	}
	if in.Summary != "" {
		out.Summary = in.Summary
	}
	if in.Cause != "" {
		out.Cause = in.Cause
	}
	if len(in.Approach) > 0 {
		out.Approach = in.Approach
	}
	if len(in.FilesToExplore) > 0 {
		out.FilesToExplore = in.FilesToExplore
	}
	if in.ActivityLevel != "" {
		out.ActivityLevel = in.ActivityLevel
	}
	if in.CodeQuality != nil {
		out.CodeQuality = in.CodeQuality
	}
	if in.CommunityScore != nil {
		out.CommunityScore = in.CommunityScore
	}
	return out
}

// IssueStatus is the user-assigned progress on a tracked issue.
type IssueStatus string

const (
	StatusNotStarted IssueStatus = "not-started"
	StatusInProgress IssueStatus = "in-progress"
	StatusCompleted  IssueStatus = "completed"
)

// UserIssueRecord holds the user's own progress data for a tracked issue.
// It exists only once an issue is tracked and a server-side record exists.
type UserIssueRecord struct {
	EntityID     string      `json:"entity_id"`
	Status       IssueStatus `json:"status"`
	Notes        string      `json:"notes"`
	LastSyncedAt time.Time   `json:"last_synced_at"`
}
