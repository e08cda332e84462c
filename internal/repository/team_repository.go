package repository

import (
	"context"
	"database/sql"

	"github.com/gearguard/maintenance-api/internal/model"
)

// TeamRepo provides access to maintenance teams and their membership
// relation. IsMember is the membership oracle the rest of the system
// relies on for assignment validation and visibility; it is a pure
// existence check and safe to call repeatedly within one authorization
// decision.
type TeamRepo struct {
	db *sql.DB
}

// NewTeamRepo returns a new TeamRepo bound to the given database.
func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

// IsMember reports whether the user belongs to the team.
func (r *TeamRepo) IsMember(ctx context.Context, teamID, userID uint64) (bool, error) {
	const q = `SELECT 1 FROM maintenance_team_member WHERE team_id = ? AND user_id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, teamID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID returns a single team or ErrTeamNotFound.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*model.MaintenanceTeam, error) {
	const q = `SELECT id, name, created_at FROM maintenance_team WHERE id = ?`
	var t model.MaintenanceTeam
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TeamMemberInfo is a member entry embedded in team listings.
type TeamMemberInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TeamWithMembers is a team plus its member list as returned by List.
type TeamWithMembers struct {
	ID      uint64           `json:"id"`
	Name    string           `json:"name"`
	Members []TeamMemberInfo `json:"members"`
}

// List returns all teams with their members. Members are fetched in one
// query and grouped in memory; teams without members get an empty slice
// rather than null.
func (r *TeamRepo) List(ctx context.Context) ([]TeamWithMembers, error) {
	const q = `SELECT id, name FROM maintenance_team ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	teams := make([]TeamWithMembers, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var t TeamWithMembers
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		t.Members = []TeamMemberInfo{}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return teams, nil
	}
	const memberQ = `SELECT m.team_id, m.user_id, u.full_name
	                 FROM maintenance_team_member m
	                 JOIN app_user u ON u.id = m.user_id
	                 ORDER BY m.team_id, m.user_id`
	mrows, err := r.db.QueryContext(ctx, memberQ)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var teamID uint64
		var member TeamMemberInfo
		if err := mrows.Scan(&teamID, &member.ID, &member.Name); err != nil {
			return nil, err
		}
		if idx, ok := index[teamID]; ok {
			teams[idx].Members = append(teams[idx].Members, member)
		}
	}
	return teams, mrows.Err()
}

// Create inserts a new team. A duplicate name returns ErrConflict. The
// unique name key arbitrates concurrent creates; the insert is
// attempted directly so the losing writer surfaces as a conflict rather
// than a driver error.
func (r *TeamRepo) Create(ctx context.Context, name string) (*model.MaintenanceTeam, error) {
	const q = `INSERT INTO maintenance_team (name) VALUES (?)`
	result, err := r.db.ExecContext(ctx, q, name)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// AddMember inserts the (team, user) pair. Adding an existing member is
// a no-op thanks to INSERT IGNORE against the pair primary key.
func (r *TeamRepo) AddMember(ctx context.Context, teamID, userID uint64) error {
	const q = `INSERT IGNORE INTO maintenance_team_member (team_id, user_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, teamID, userID)
	return err
}

// RemoveMember deletes the (team, user) pair. Removing a pair that does
// not exist is a no-op.
func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	const q = `DELETE FROM maintenance_team_member WHERE team_id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, q, teamID, userID)
	return err
}

// TeamIDsForUser returns the ids of all teams the user belongs to.
func (r *TeamRepo) TeamIDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	const q = `SELECT team_id FROM maintenance_team_member WHERE user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
