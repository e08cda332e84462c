package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleManager(t *testing.T) {
	manager := Actor{ID: 1, Role: RoleManager}
	req := Request{ID: 10, TeamID: 2, RequesterID: 9, Stage: StageInProgress}
	assert.True(t, Visible(manager, req, nil))
}

func TestVisibleTechnician(t *testing.T) {
	tech := Actor{ID: 31, Role: RoleTechnician}
	teams := map[uint64]bool{2: true}

	// assigned to them, any stage
	assigned := Request{ID: 10, TeamID: 5, RequesterID: 9, AssignedToID: ptr(uint64(31)), Stage: StageRepaired}
	assert.True(t, Visible(tech, assigned, teams))

	// unclaimed new request of their team
	unclaimed := Request{ID: 11, TeamID: 2, RequesterID: 9, Stage: StageNew}
	assert.True(t, Visible(tech, unclaimed, teams))

	// new request of a team they do not belong to
	foreign := Request{ID: 12, TeamID: 7, RequesterID: 9, Stage: StageNew}
	assert.False(t, Visible(tech, foreign, teams))

	// team request already past new and assigned to someone else
	claimed := Request{ID: 13, TeamID: 2, RequesterID: 9, AssignedToID: ptr(uint64(40)), Stage: StageInProgress}
	assert.False(t, Visible(tech, claimed, teams))
}

func TestVisibleRequester(t *testing.T) {
	requester := Actor{ID: 9, Role: RoleRequester}

	own := Request{ID: 10, TeamID: 2, RequesterID: 9, Stage: StageNew}
	assert.True(t, Visible(requester, own, nil))

	other := Request{ID: 11, TeamID: 2, RequesterID: 8, Stage: StageNew}
	assert.False(t, Visible(requester, other, nil))

	// being the assignee does not grant a requester visibility
	assignedToThem := Request{ID: 12, TeamID: 2, RequesterID: 8, AssignedToID: ptr(uint64(9)), Stage: StageInProgress}
	assert.False(t, Visible(requester, assignedToThem, nil))
}

func TestVisibleUnknownRole(t *testing.T) {
	req := Request{ID: 10, TeamID: 2, RequesterID: 9, Stage: StageNew}
	assert.False(t, Visible(Actor{ID: 9, Role: RoleUnknown}, req, nil))
}
