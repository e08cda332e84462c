package model

import "time"

// MaintenanceTeam is a named group of technicians. Equipment belongs to
// exactly one maintenance team, and team membership is what grants a
// technician visibility and assignment eligibility for that equipment's
// requests.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique team name.
//  CreatedAt – timestamp of creation.
type MaintenanceTeam struct {
	ID        uint64    // maintenance_team.id
	Name      string    // maintenance_team.name
	CreatedAt time.Time // maintenance_team.created_at
}

// TeamMember is the (team, user) membership relation. A user may belong
// to any number of teams; the pair itself is the primary key. The
// optional Role is a free-form sub-role label within the team and has no
// effect on authorization.
//
// Fields:
//  TeamID – team side of the pair.
//  UserID – user side of the pair.
//  Role   – optional sub-role within the team.
type TeamMember struct {
	TeamID uint64  // maintenance_team_member.team_id
	UserID uint64  // maintenance_team_member.user_id
	Role   *string // maintenance_team_member.role (nullable)
}
