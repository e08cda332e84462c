package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gearguard/maintenance-api/internal/model"
)

// EquipmentRepo provides access to the equipment table and the joined
// summaries exposed by the equipment endpoints.
type EquipmentRepo struct {
	db *sql.DB
}

// NewEquipmentRepo returns a new EquipmentRepo bound to the given database.
func NewEquipmentRepo(db *sql.DB) *EquipmentRepo { return &EquipmentRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *EquipmentRepo) DB() *sql.DB { return r.db }

// GetByID returns a single equipment row or ErrEquipmentNotFound.
func (r *EquipmentRepo) GetByID(ctx context.Context, id uint64) (*model.Equipment, error) {
	const q = `SELECT id, name, serial_number, category_id, department_id, owner_user_id,
	                  location_id, maintenance_team_id, default_technician_id,
	                  status, unusable_reason, created_at, updated_at
	           FROM equipment WHERE id = ?`
	var e model.Equipment
	var deptID, ownerID, locID sql.NullInt64
	var reason sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.CategoryID, &deptID, &ownerID,
		&locID, &e.MaintenanceTeamID, &e.DefaultTechnicianID,
		&e.Status, &reason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrEquipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if deptID.Valid {
		v := uint64(deptID.Int64)
		e.DepartmentID = &v
	}
	if ownerID.Valid {
		v := uint64(ownerID.Int64)
		e.OwnerUserID = &v
	}
	if locID.Valid {
		v := uint64(locID.Int64)
		e.LocationID = &v
	}
	if reason.Valid {
		v := reason.String
		e.UnusableReason = &v
	}
	return &e, nil
}

// EquipmentFilter narrows the equipment listing. Query matches name or
// serial number case-insensitively.
type EquipmentFilter struct {
	DepartmentID *uint64
	OwnerUserID  *uint64
	Query        string
}

// EquipmentSummary is a listing row with joined display names and the
// count of open (not closed) requests for the equipment.
type EquipmentSummary struct {
	ID                   uint64  `json:"id"`
	Name                 string  `json:"name"`
	SerialNumber         string  `json:"serial_number"`
	Department           *string `json:"department"`
	Owner                *string `json:"owner"`
	Category             string  `json:"category"`
	TeamID               uint64  `json:"team_id"`
	Team                 string  `json:"team"`
	DefaultTechnicianID  uint64  `json:"default_technician_id"`
	DefaultTechnician    *string `json:"default_technician"`
	Status               string  `json:"status"`
	MaintenanceOpenCount int64   `json:"maintenance_open_count"`
}

// List returns equipment summaries matching the filter. Open counts come
// from a grouped subquery over requests whose stage is not closed, so a
// freshly scrapped or repaired request drops out of the count.
func (r *EquipmentRepo) List(ctx context.Context, filter EquipmentFilter) ([]EquipmentSummary, error) {
	q := `SELECT e.id, e.name, e.serial_number, d.name, ou.full_name, c.name,
	             e.maintenance_team_id, t.name, e.default_technician_id, dt.full_name,
	             e.status, COALESCE(oc.open_count, 0)
	      FROM equipment e
	      JOIN equipment_category c ON c.id = e.category_id
	      JOIN maintenance_team t ON t.id = e.maintenance_team_id
	      LEFT JOIN department d ON d.id = e.department_id
	      LEFT JOIN app_user ou ON ou.id = e.owner_user_id
	      LEFT JOIN app_user dt ON dt.id = e.default_technician_id
	      LEFT JOIN (
	          SELECT mr.equipment_id AS eq_id, COUNT(*) AS open_count
	          FROM maintenance_request mr
	          JOIN request_stage rs ON rs.id = mr.stage_id
	          WHERE rs.is_closed = FALSE
	          GROUP BY mr.equipment_id
	      ) oc ON oc.eq_id = e.id`
	var conds []string
	var args []interface{}
	if filter.DepartmentID != nil {
		conds = append(conds, "e.department_id = ?")
		args = append(args, *filter.DepartmentID)
	}
	if filter.OwnerUserID != nil {
		conds = append(conds, "e.owner_user_id = ?")
		args = append(args, *filter.OwnerUserID)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		conds = append(conds, "(LOWER(e.name) LIKE ? OR LOWER(e.serial_number) LIKE ?)")
		args = append(args, like, like)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY e.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EquipmentSummary, 0)
	for rows.Next() {
		var s EquipmentSummary
		var dept, owner, tech sql.NullString
		if err := rows.Scan(
			&s.ID, &s.Name, &s.SerialNumber, &dept, &owner, &s.Category,
			&s.TeamID, &s.Team, &s.DefaultTechnicianID, &tech,
			&s.Status, &s.MaintenanceOpenCount,
		); err != nil {
			return nil, err
		}
		if dept.Valid {
			v := dept.String
			s.Department = &v
		}
		if owner.Valid {
			v := owner.String
			s.Owner = &v
		}
		if tech.Valid {
			v := tech.String
			s.DefaultTechnician = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// OpenRequestCount returns the number of requests for the equipment
// whose stage is not closed.
func (r *EquipmentRepo) OpenRequestCount(ctx context.Context, equipmentID uint64) (int64, error) {
	const q = `SELECT COUNT(*)
	           FROM maintenance_request mr
	           JOIN request_stage rs ON rs.id = mr.stage_id
	           WHERE mr.equipment_id = ? AND rs.is_closed = FALSE`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, equipmentID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MarkUnusableTx sets the equipment's status to unusable with the given
// reason, inside the caller's transaction. Used by the scrap transition
// so the equipment update commits atomically with the stage change.
func (r *EquipmentRepo) MarkUnusableTx(ctx context.Context, tx *sql.Tx, equipmentID uint64, reason string) error {
	const q = `UPDATE equipment
	           SET status = ?, unusable_reason = ?, unusable_at = NOW(), updated_at = NOW()
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.EquipmentStatusUnusable, reason, equipmentID)
	return err
}
