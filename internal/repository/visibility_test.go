package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
)

func TestRequestVisibilityWhereManager(t *testing.T) {
	where, args := requestVisibilityWhere(lifecycle.Actor{ID: 1, Role: lifecycle.RoleManager}, 10)
	assert.Equal(t, "1 = 1", where)
	assert.Empty(t, args)
}

func TestRequestVisibilityWhereTechnician(t *testing.T) {
	where, args := requestVisibilityWhere(lifecycle.Actor{ID: 31, Role: lifecycle.RoleTechnician}, 10)
	assert.Contains(t, where, "r.assigned_to_id = ?")
	assert.Contains(t, where, "r.stage_id = ?")
	assert.Contains(t, where, "maintenance_team_member")
	assert.Equal(t, []interface{}{uint64(31), uint64(10), uint64(31)}, args)
}

func TestRequestVisibilityWhereRequester(t *testing.T) {
	where, args := requestVisibilityWhere(lifecycle.Actor{ID: 9, Role: lifecycle.RoleRequester}, 10)
	assert.Equal(t, "r.requester_id = ?", where)
	assert.Equal(t, []interface{}{uint64(9)}, args)

	// an unresolved role falls back to the most restrictive predicate
	where, args = requestVisibilityWhere(lifecycle.Actor{ID: 9, Role: lifecycle.RoleUnknown}, 10)
	assert.Equal(t, "r.requester_id = ?", where)
	assert.Equal(t, []interface{}{uint64(9)}, args)
}
