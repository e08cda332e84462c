package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
	"github.com/gearguard/maintenance-api/internal/model"
)

// RequestRepo provides access to maintenance requests. Every listing
// method goes through the same visibility predicate so the role rules
// cannot drift between endpoints.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a new RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *RequestRepo) DB() *sql.DB { return r.db }

// RequestDetail is a request listing row with joined display names. The
// Stage field carries the normalized wire name ("new", "in_progress",
// "repaired", "scrap") regardless of how the stored label is spelled.
type RequestDetail struct {
	ID             uint64  `json:"id"`
	Subject        string  `json:"subject"`
	RequestType    string  `json:"request_type"`
	Stage          string  `json:"stage"`
	EquipmentID    uint64  `json:"equipment_id"`
	EquipmentName  string  `json:"equipment_name"`
	TeamID         uint64  `json:"team_id"`
	TeamName       string  `json:"team_name"`
	AssignedToID   *uint64 `json:"assigned_to_id"`
	AssignedToName *string `json:"assigned_to_name"`
	ScheduledStart *string `json:"scheduled_start"`
}

// requestVisibilityWhere builds the role-scoped predicate applied to
// every request listing (list, calendar, per-equipment). newStageID is
// the registry id of the New stage, used for the technician rule:
// technicians see requests assigned to them plus unclaimed (new)
// requests of teams they belong to; requesters see only their own.
func requestVisibilityWhere(actor lifecycle.Actor, newStageID uint64) (string, []interface{}) {
	switch actor.Role {
	case lifecycle.RoleManager:
		return "1 = 1", nil
	case lifecycle.RoleTechnician:
		cond := `(r.assigned_to_id = ? OR (r.stage_id = ? AND r.team_id IN (
		            SELECT m.team_id FROM maintenance_team_member m WHERE m.user_id = ?)))`
		return cond, []interface{}{actor.ID, newStageID, actor.ID}
	}
	return "r.requester_id = ?", []interface{}{actor.ID}
}

const requestSelect = `SELECT r.id, r.subject, r.request_type, rs.name,
	       r.equipment_id, e.name, r.team_id, t.name,
	       r.assigned_to_id, au.full_name, r.scheduled_start
	FROM maintenance_request r
	JOIN equipment e ON e.id = r.equipment_id
	JOIN request_stage rs ON rs.id = r.stage_id
	JOIN maintenance_team t ON t.id = r.team_id
	LEFT JOIN app_user au ON au.id = r.assigned_to_id`

func scanRequestDetails(rows *sql.Rows) ([]RequestDetail, error) {
	out := make([]RequestDetail, 0)
	for rows.Next() {
		var d RequestDetail
		var stageName string
		var assignedID sql.NullInt64
		var assignedName sql.NullString
		var scheduled sql.NullTime
		if err := rows.Scan(
			&d.ID, &d.Subject, &d.RequestType, &stageName,
			&d.EquipmentID, &d.EquipmentName, &d.TeamID, &d.TeamName,
			&assignedID, &assignedName, &scheduled,
		); err != nil {
			return nil, err
		}
		d.Stage = lifecycle.ParseStage(stageName).String()
		if assignedID.Valid {
			v := uint64(assignedID.Int64)
			d.AssignedToID = &v
		}
		if assignedName.Valid {
			v := assignedName.String
			d.AssignedToName = &v
		}
		if scheduled.Valid {
			iso := scheduled.Time.UTC().Format(time.RFC3339)
			d.ScheduledStart = &iso
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// List returns the requests visible to the actor, newest first.
func (r *RequestRepo) List(ctx context.Context, actor lifecycle.Actor, newStageID uint64) ([]RequestDetail, error) {
	where, args := requestVisibilityWhere(actor, newStageID)
	q := requestSelect + " WHERE " + where + " ORDER BY r.created_at DESC, r.id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequestDetails(rows)
}

// Calendar returns the preventive requests with a scheduled start inside
// the optional [start, end] range, visible to the actor under the same
// predicate as List.
func (r *RequestRepo) Calendar(ctx context.Context, actor lifecycle.Actor, newStageID uint64, start, end *time.Time) ([]RequestDetail, error) {
	where, args := requestVisibilityWhere(actor, newStageID)
	conds := []string{"r.request_type = ?", where}
	args = append([]interface{}{model.RequestTypePreventive}, args...)
	if start != nil {
		conds = append(conds, "r.scheduled_start >= ?")
		args = append(args, start.UTC())
	}
	if end != nil {
		conds = append(conds, "r.scheduled_start <= ?")
		args = append(args, end.UTC())
	}
	q := requestSelect + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY r.scheduled_start, r.id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequestDetails(rows)
}

// ListByEquipment returns the requests for one piece of equipment,
// visible to the actor under the same predicate as List.
func (r *RequestRepo) ListByEquipment(ctx context.Context, actor lifecycle.Actor, newStageID, equipmentID uint64) ([]RequestDetail, error) {
	where, args := requestVisibilityWhere(actor, newStageID)
	q := requestSelect + " WHERE r.equipment_id = ? AND " + where + " ORDER BY r.created_at DESC, r.id DESC"
	args = append([]interface{}{equipmentID}, args...)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequestDetails(rows)
}

// GetDetailByID returns a single request with joined names, without any
// visibility filter; it backs the responses of the mutation endpoints
// which authorize through the lifecycle engine instead.
func (r *RequestRepo) GetDetailByID(ctx context.Context, id uint64) (*RequestDetail, error) {
	q := requestSelect + " WHERE r.id = ?"
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details, err := scanRequestDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrRequestNotFound
	}
	return &details[0], nil
}

// GetByID returns the raw request row or ErrRequestNotFound.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (*model.MaintenanceRequest, error) {
	const q = `SELECT id, request_type, subject, description, equipment_id,
	                  equipment_category_id, team_id, requester_id, assigned_to_id,
	                  stage_id, scheduled_start, actual_duration_hours, created_at, updated_at
	           FROM maintenance_request WHERE id = ?`
	var m model.MaintenanceRequest
	var desc sql.NullString
	var assigned sql.NullInt64
	var scheduled sql.NullTime
	var duration sql.NullFloat64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.RequestType, &m.Subject, &desc, &m.EquipmentID,
		&m.EquipmentCategoryID, &m.TeamID, &m.RequesterID, &assigned,
		&m.StageID, &scheduled, &duration, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		v := desc.String
		m.Description = &v
	}
	if assigned.Valid {
		v := uint64(assigned.Int64)
		m.AssignedToID = &v
	}
	if scheduled.Valid {
		t := scheduled.Time
		m.ScheduledStart = &t
	}
	if duration.Valid {
		v := duration.Float64
		m.ActualDurationHours = &v
	}
	return &m, nil
}

// CreateTx inserts a new request within the caller's transaction and
// populates the generated id on the record.
func (r *RequestRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.MaintenanceRequest) error {
	const q = `INSERT INTO maintenance_request
	           (request_type, subject, description, equipment_id, equipment_category_id,
	            team_id, requester_id, assigned_to_id, stage_id, scheduled_start)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var desc interface{}
	if m.Description != nil {
		desc = *m.Description
	}
	var assigned interface{}
	if m.AssignedToID != nil {
		assigned = *m.AssignedToID
	}
	var scheduled interface{}
	if m.ScheduledStart != nil {
		scheduled = m.ScheduledStart.UTC()
	}
	result, err := tx.ExecContext(ctx, q,
		m.RequestType, m.Subject, desc, m.EquipmentID, m.EquipmentCategoryID,
		m.TeamID, m.RequesterID, assigned, m.StageID, scheduled,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// UpdateStageTx moves the request to the given stage row id within the
// caller's transaction.
func (r *RequestRepo) UpdateStageTx(ctx context.Context, tx *sql.Tx, id, stageID uint64) error {
	const q = `UPDATE maintenance_request SET stage_id = ?, updated_at = NOW() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, stageID, id)
	return err
}

// UpdateAssigneeTx sets the request's assignee within the caller's
// transaction.
func (r *RequestRepo) UpdateAssigneeTx(ctx context.Context, tx *sql.Tx, id, userID uint64) error {
	const q = `UPDATE maintenance_request SET assigned_to_id = ?, updated_at = NOW() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, userID, id)
	return err
}

// UpdateDurationTx records the actual repair duration and the repaired
// timestamp within the caller's transaction.
func (r *RequestRepo) UpdateDurationTx(ctx context.Context, tx *sql.Tx, id uint64, hours float64) error {
	const q = `UPDATE maintenance_request SET actual_duration_hours = ?, repaired_at = NOW(), updated_at = NOW() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, hours, id)
	return err
}

// InsertLogTx appends an audit row recording a field change, within the
// caller's transaction so the log commits together with the change.
func (r *RequestRepo) InsertLogTx(ctx context.Context, tx *sql.Tx, requestID, changedBy uint64, field, oldValue, newValue string) error {
	const q = `INSERT INTO maintenance_request_log (request_id, changed_by, field_name, old_value, new_value)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, requestID, changedBy, field, oldValue, newValue)
	return err
}
