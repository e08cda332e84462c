package lifecycle

// Visible reports whether the actor may see the request. The same rules
// back the SQL predicate applied to every listing endpoint:
//
//   manager    – sees everything.
//   technician – sees requests assigned to them, plus unclaimed (new)
//                requests belonging to one of their teams.
//   requester  – sees only requests they created.
//
// memberTeams holds the ids of the teams the actor belongs to; it is
// consulted only for technicians.
func Visible(actor Actor, req Request, memberTeams map[uint64]bool) bool {
	switch actor.Role {
	case RoleManager:
		return true
	case RoleTechnician:
		if req.AssignedToID != nil && *req.AssignedToID == actor.ID {
			return true
		}
		return req.Stage == StageNew && memberTeams[req.TeamID]
	case RoleRequester:
		return req.RequesterID == actor.ID
	}
	return false
}
