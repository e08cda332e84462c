// Package lifecycle implements the maintenance-request domain core: the
// closed stage and role variants, the stage-transition state machine, the
// assignment rules and the role-scoped visibility predicate. The package
// performs no I/O; operations return command values that the handler
// layer applies inside a database transaction.
package lifecycle

import "strings"

// Stage is the closed set of logical lifecycle stages. Persisted stage
// labels are normalized into this variant at the storage boundary via
// ParseStage; all internal logic operates on the variant, never on raw
// strings.
type Stage int

const (
	StageUnknown Stage = iota
	StageNew
	StageInProgress
	StageRepaired
	StageScrap
)

// ParseStage normalizes a persisted stage label into its logical stage.
// Matching is case-insensitive and tolerant of cosmetic variants:
// "in progress", "in_progress" and "in-progress" are all StageInProgress,
// and any label starting with "repaired" or "scrap" resolves to those
// stages. Anything else is StageUnknown, which fails every transition
// check later instead of erroring at resolution time.
func ParseStage(name string) Stage {
	lowered := strings.ToLower(strings.TrimSpace(name))
	switch {
	case lowered == "new":
		return StageNew
	case lowered == "in progress" || lowered == "in_progress" || lowered == "in-progress":
		return StageInProgress
	case strings.HasPrefix(lowered, "repaired"):
		return StageRepaired
	case strings.HasPrefix(lowered, "scrap"):
		return StageScrap
	}
	return StageUnknown
}

// String returns the wire name of the stage as exposed in API responses
// ("new", "in_progress", "repaired", "scrap").
func (s Stage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StageInProgress:
		return "in_progress"
	case StageRepaired:
		return "repaired"
	case StageScrap:
		return "scrap"
	}
	return "unknown"
}

// Label returns the human-readable stage name as stored in the stage
// registry ("New", "In Progress", "Repaired", "Scrap").
func (s Stage) Label() string {
	switch s {
	case StageNew:
		return "New"
	case StageInProgress:
		return "In Progress"
	case StageRepaired:
		return "Repaired"
	case StageScrap:
		return "Scrap"
	}
	return ""
}

// IsClosed reports whether the stage is terminal.
func (s Stage) IsClosed() bool { return s == StageRepaired || s == StageScrap }

// IsScrap reports whether the stage is the scrap stage.
func (s Stage) IsScrap() bool { return s == StageScrap }

// StageSeed describes one required registry row.
type StageSeed struct {
	Stage    Stage
	Name     string
	Sequence int
	IsClosed bool
	IsScrap  bool
}

// DefaultStages returns the four required lifecycle stages with their
// fixed sequence numbers and flags. The stage repository inserts these
// idempotently at startup so the registry is self-healing against an
// empty or partially-seeded store.
func DefaultStages() []StageSeed {
	return []StageSeed{
		{Stage: StageNew, Name: "New", Sequence: 10},
		{Stage: StageInProgress, Name: "In Progress", Sequence: 20},
		{Stage: StageRepaired, Name: "Repaired", Sequence: 30, IsClosed: true},
		{Stage: StageScrap, Name: "Scrap", Sequence: 40, IsClosed: true, IsScrap: true},
	}
}
