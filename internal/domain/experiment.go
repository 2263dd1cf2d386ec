package domain

import "time"

// Status is the lifecycle state of an experiment.
type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusLive   Status = "LIVE"
	StatusPaused Status = "PAUSED"
	StatusEnded  Status = "ENDED"
)

// Statuses lists all lifecycle states in declaration order.
var Statuses = []Status{StatusDraft, StatusLive, StatusPaused, StatusEnded}

// IsValid reports whether s is one of the four lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusLive, StatusPaused, StatusEnded:
		return true
	}
	return false
}

// transitions is the legal status transition table. ENDED is terminal.
var transitions = map[Status][]Status{
	StatusDraft:  {StatusLive},
	StatusLive:   {StatusPaused, StatusEnded},
	StatusPaused: {StatusLive, StatusEnded},
	StatusEnded:  {},
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ActionForTransition maps a legal (from, to) status pair to its audit
// action. Pairs outside the transition table are an error rather than
// silently falling back to "updated".
func ActionForTransition(from, to Status) (AuditAction, error) {
	if !from.CanTransitionTo(to) {
		return "", &InvalidTransitionError{From: from, To: to}
	}
	switch to {
	case StatusLive:
		if from == StatusPaused {
			return ActionResumed, nil
		}
		return ActionWentLive, nil
	case StatusPaused:
		return ActionPaused, nil
	case StatusEnded:
		return ActionEnded, nil
	}
	return "", &InvalidTransitionError{From: from, To: to}
}

// Experiment is an A/B test record with variants, targeting, and a
// lifecycle status. Ownership never transfers after creation.
type Experiment struct {
	ID            string
	OwnerID       string
	Name          string
	Description   *string
	Hypothesis    *string
	PrimaryKPI    *string
	SecondaryKPIs []string
	Targeting     TargetingRules
	Status        Status
	GoLiveAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Variants      []Variant
}

// Editable reports whether configuration fields may still change.
// Only draft experiments accept edits; live and paused experiments
// accept status operations only, and ended experiments are frozen.
func (e *Experiment) Editable() bool {
	return e.Status == StatusDraft
}

// GoLiveSnapshot extracts the fields the go-live validator inspects.
func (e *Experiment) GoLiveSnapshot() GoLiveSnapshot {
	return GoLiveSnapshot{
		Variants:   e.Variants,
		PrimaryKPI: e.PrimaryKPI,
		Targeting:  e.Targeting,
	}
}

// Variant is one traffic-allocation bucket within an experiment.
type Variant struct {
	ID                string
	ExperimentID      string
	Name              string
	Description       *string
	TrafficPercentage int
	IsControl         bool
}

// TargetingRules is the audience-narrowing filter for an experiment.
// Each category is an independent set of tokens; order is irrelevant.
type TargetingRules struct {
	Device   []string `json:"device,omitempty"`
	Country  []string `json:"country,omitempty"`
	Channel  []string `json:"channel,omitempty"`
	UserType []string `json:"userType,omitempty"`
	Language []string `json:"language,omitempty"`
}

// HasAnyRule reports whether at least one category is non-empty.
func (t TargetingRules) HasAnyRule() bool {
	return len(t.Device) > 0 || len(t.Country) > 0 || len(t.Channel) > 0 ||
		len(t.UserType) > 0 || len(t.Language) > 0
}
