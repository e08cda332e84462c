package lifecycle

import "fmt"

// Request is the snapshot of a maintenance request the engine operates
// on. Handlers build it from the stored row; the engine never touches
// the database itself.
type Request struct {
	ID           uint64
	EquipmentID  uint64
	TeamID       uint64
	RequesterID  uint64
	AssignedToID *uint64
	Stage        Stage
}

// MembershipFunc answers whether a user belongs to a team. The handler
// layer supplies it backed by the membership relation; tests supply
// fakes.
type MembershipFunc func(teamID, userID uint64) (bool, error)

// Command is a mutation the engine asks the orchestrating layer to
// apply. All commands produced by one operation must be persisted in a
// single transaction.
type Command interface{ isCommand() }

// SetStage moves the request to the given stage.
type SetStage struct{ Stage Stage }

// SetAssignee sets the request's assigned technician.
type SetAssignee struct{ UserID uint64 }

// SetDuration records the actual repair duration in hours.
type SetDuration struct{ Hours float64 }

// SetEquipmentStatus changes the linked equipment's status. Emitted by
// scrap transitions together with the stage change; the two updates
// must commit atomically.
type SetEquipmentStatus struct {
	EquipmentID uint64
	Status      string
	Reason      string
}

func (SetStage) isCommand()           {}
func (SetAssignee) isCommand()        {}
func (SetDuration) isCommand()        {}
func (SetEquipmentStatus) isCommand() {}

// allowedTransitions is the lifecycle table. Scrap is deliberately
// absent from the terminal rows: CanTransition grants it from any stage
// as an escape hatch, overriding the table for that target.
var allowedTransitions = map[Stage][]Stage{
	StageNew:        {StageInProgress, StageScrap},
	StageInProgress: {StageRepaired, StageScrap},
	StageRepaired:   {},
	StageScrap:      {},
}

// CanTransition reports whether a request in stage from may move to
// stage to. A scrap target is always permitted regardless of the
// current stage.
func CanTransition(from, to Stage) bool {
	if to == StageScrap {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// requireTeamActor enforces the shared role gate for mutations:
// requesters never change requests, technicians must belong to the
// request's team, managers pass unconditionally.
func requireTeamActor(req Request, actor Actor, isMember MembershipFunc) error {
	switch actor.Role {
	case RoleManager:
		return nil
	case RoleTechnician:
		ok, err := isMember(req.TeamID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}

// ApplyStageChange validates a stage transition for req and returns the
// commands to persist. Checks run in order: transition table (with the
// scrap escape hatch), actor role and team membership, duration
// requirement for repaired, assignee requirement for in_progress. When
// the target is in_progress and the request has no assignee, the acting
// user is auto-assigned before the membership requirement is enforced.
// A scrap target additionally emits a SetEquipmentStatus command marking
// the linked equipment unusable with a reason referencing the request.
func ApplyStageChange(req Request, target Stage, durationHours *float64, actor Actor, isMember MembershipFunc) ([]Command, error) {
	if !CanTransition(req.Stage, target) {
		return nil, ErrInvalidTransition
	}
	if err := requireTeamActor(req, actor, isMember); err != nil {
		return nil, err
	}
	if target == StageRepaired && durationHours == nil {
		return nil, &ValidationError{Field: "actual_duration_hours", Reason: "duration required for repaired"}
	}

	var cmds []Command
	if target == StageInProgress {
		assignee := req.AssignedToID
		if assignee == nil {
			id := actor.ID
			assignee = &id
			cmds = append(cmds, SetAssignee{UserID: actor.ID})
		}
		ok, err := isMember(req.TeamID, *assignee)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ValidationError{Field: "assigned_to_id", Reason: "assignee not in team"}
		}
	}
	if target == StageScrap {
		cmds = append(cmds, SetEquipmentStatus{
			EquipmentID: req.EquipmentID,
			Status:      "unusable",
			Reason:      fmt.Sprintf("Request %d moved to scrap", req.ID),
		})
	}
	cmds = append(cmds, SetStage{Stage: target})
	if target == StageRepaired {
		cmds = append(cmds, SetDuration{Hours: *durationHours})
	}
	return cmds, nil
}

// Assign validates an explicit assignment and returns the commands to
// persist. The actor gate matches stage changes; the assignee must be a
// member of the request's team. Assigning a request still in the new
// stage auto-advances it to in_progress, since assignment implies work
// has started.
func Assign(req Request, assigneeID uint64, actor Actor, isMember MembershipFunc) ([]Command, error) {
	if err := requireTeamActor(req, actor, isMember); err != nil {
		return nil, err
	}
	ok, err := isMember(req.TeamID, assigneeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ValidationError{Field: "assigned_to_id", Reason: "assignee not in team"}
	}
	cmds := []Command{SetAssignee{UserID: assigneeID}}
	if req.Stage == StageNew {
		cmds = append(cmds, SetStage{Stage: StageInProgress})
	}
	return cmds, nil
}

// InitialAssignee decides the assignee for a newly created request: the
// equipment's default technician, but only while they are still a member
// of the equipment's maintenance team. A default technician who has
// since left the team is silently skipped, leaving the request
// unassigned.
func InitialAssignee(defaultTechnicianID, teamID uint64, isMember MembershipFunc) (*uint64, error) {
	if defaultTechnicianID == 0 {
		return nil, nil
	}
	ok, err := isMember(teamID, defaultTechnicianID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	id := defaultTechnicianID
	return &id, nil
}
