package lifecycle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberOf(pairs ...[2]uint64) MembershipFunc {
	set := map[[2]uint64]bool{}
	for _, p := range pairs {
		set[p] = true
	}
	return func(teamID, userID uint64) (bool, error) {
		return set[[2]uint64{teamID, userID}], nil
	}
}

func nobody(teamID, userID uint64) (bool, error) { return false, nil }

func everybody(teamID, userID uint64) (bool, error) { return true, nil }

func ptr[T any](v T) *T { return &v }

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StageNew, StageInProgress))
	assert.True(t, CanTransition(StageInProgress, StageRepaired))
	assert.False(t, CanTransition(StageNew, StageRepaired))
	assert.False(t, CanTransition(StageRepaired, StageInProgress))
	assert.False(t, CanTransition(StageRepaired, StageNew))
	assert.False(t, CanTransition(StageInProgress, StageNew))

	// scrap is reachable from everywhere, terminal stages included
	for _, from := range []Stage{StageNew, StageInProgress, StageRepaired, StageScrap, StageUnknown} {
		assert.True(t, CanTransition(from, StageScrap), "from %s", from)
	}

	// an unknown stage can go nowhere else
	assert.False(t, CanTransition(StageUnknown, StageInProgress))
	assert.False(t, CanTransition(StageUnknown, StageRepaired))
}

func TestApplyStageChangeSkipRejected(t *testing.T) {
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, Stage: StageNew}
	manager := Actor{ID: 100, Role: RoleManager}

	// jumping straight to repaired is rejected even with a duration
	_, err := ApplyStageChange(req, StageRepaired, ptr(2.0), manager, everybody)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplyStageChangeRepairedNeedsDuration(t *testing.T) {
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, AssignedToID: ptr(uint64(7)), Stage: StageInProgress}
	manager := Actor{ID: 100, Role: RoleManager}

	_, err := ApplyStageChange(req, StageRepaired, nil, manager, everybody)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "actual_duration_hours", ve.Field)

	cmds, err := ApplyStageChange(req, StageRepaired, ptr(2.5), manager, everybody)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, SetStage{Stage: StageRepaired}, cmds[0])
	assert.Equal(t, SetDuration{Hours: 2.5}, cmds[1])
}

func TestApplyStageChangeScrapMarksEquipment(t *testing.T) {
	for _, from := range []Stage{StageNew, StageInProgress, StageRepaired} {
		req := Request{ID: 42, EquipmentID: 7, TeamID: 2, RequesterID: 9, Stage: from}
		manager := Actor{ID: 100, Role: RoleManager}

		cmds, err := ApplyStageChange(req, StageScrap, nil, manager, nobody)
		require.NoError(t, err, "from %s", from)
		require.Len(t, cmds, 2)

		status, ok := cmds[0].(SetEquipmentStatus)
		require.True(t, ok)
		assert.Equal(t, uint64(7), status.EquipmentID)
		assert.Equal(t, "unusable", status.Status)
		assert.Contains(t, status.Reason, fmt.Sprintf("%d", req.ID))
		assert.Equal(t, SetStage{Stage: StageScrap}, cmds[1])
	}
}

func TestApplyStageChangeInProgressAutoAssigns(t *testing.T) {
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, Stage: StageNew}
	tech := Actor{ID: 31, Role: RoleTechnician}
	members := memberOf([2]uint64{2, 31})

	cmds, err := ApplyStageChange(req, StageInProgress, nil, tech, members)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, SetAssignee{UserID: 31}, cmds[0])
	assert.Equal(t, SetStage{Stage: StageInProgress}, cmds[1])
}

func TestApplyStageChangeKeepsExistingAssignee(t *testing.T) {
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, AssignedToID: ptr(uint64(40)), Stage: StageNew}
	manager := Actor{ID: 100, Role: RoleManager}
	members := memberOf([2]uint64{2, 40})

	cmds, err := ApplyStageChange(req, StageInProgress, nil, manager, members)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, SetStage{Stage: StageInProgress}, cmds[0])
}

func TestApplyStageChangeAssigneeMustBeMember(t *testing.T) {
	// existing assignee who left the team blocks the transition
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, AssignedToID: ptr(uint64(40)), Stage: StageNew}
	manager := Actor{ID: 100, Role: RoleManager}

	_, err := ApplyStageChange(req, StageInProgress, nil, manager, nobody)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "assigned_to_id", ve.Field)
}

func TestApplyStageChangeRoleGate(t *testing.T) {
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, Stage: StageNew}

	// requesters never mutate, even their own requests
	requester := Actor{ID: 9, Role: RoleRequester}
	_, err := ApplyStageChange(req, StageInProgress, nil, requester, everybody)
	assert.ErrorIs(t, err, ErrForbidden)

	// technicians outside the request's team are rejected
	outsider := Actor{ID: 50, Role: RoleTechnician}
	_, err = ApplyStageChange(req, StageScrap, nil, outsider, nobody)
	assert.ErrorIs(t, err, ErrForbidden)

	// the transition table is consulted before the role gate
	closed := Request{ID: 2, EquipmentID: 5, TeamID: 2, RequesterID: 9, Stage: StageRepaired}
	_, err = ApplyStageChange(closed, StageInProgress, nil, requester, everybody)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplyStageChangeMembershipError(t *testing.T) {
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, Stage: StageNew}
	tech := Actor{ID: 31, Role: RoleTechnician}
	boom := errors.New("connection lost")
	failing := func(teamID, userID uint64) (bool, error) { return false, boom }

	_, err := ApplyStageChange(req, StageInProgress, nil, tech, failing)
	assert.ErrorIs(t, err, boom)
}

func TestAssign(t *testing.T) {
	members := memberOf([2]uint64{2, 31}, [2]uint64{2, 40})
	manager := Actor{ID: 100, Role: RoleManager}

	// assigning a new request auto-advances it
	req := Request{ID: 1, EquipmentID: 5, TeamID: 2, RequesterID: 9, Stage: StageNew}
	cmds, err := Assign(req, 31, manager, members)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, SetAssignee{UserID: 31}, cmds[0])
	assert.Equal(t, SetStage{Stage: StageInProgress}, cmds[1])

	// reassigning an in-progress request leaves the stage alone
	req.Stage = StageInProgress
	cmds, err = Assign(req, 40, manager, members)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, SetAssignee{UserID: 40}, cmds[0])

	// the assignee must belong to the request's team
	_, err = Assign(req, 77, manager, members)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "assigned_to_id", ve.Field)

	// requesters cannot assign
	_, err = Assign(req, 31, Actor{ID: 9, Role: RoleRequester}, members)
	assert.ErrorIs(t, err, ErrForbidden)

	// technicians from another team cannot assign
	_, err = Assign(req, 31, Actor{ID: 77, Role: RoleTechnician}, members)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestInitialAssignee(t *testing.T) {
	members := memberOf([2]uint64{2, 31})

	got, err := InitialAssignee(31, 2, members)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(31), *got)

	// a default technician who left the team is skipped
	got, err = InitialAssignee(40, 2, members)
	require.NoError(t, err)
	assert.Nil(t, got)

	// no default technician configured
	got, err = InitialAssignee(0, 2, members)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "subject", Reason: "required"}
	assert.Equal(t, "subject: required", err.Error())
}
