package model

import "time"

// Maintenance request types.
const (
	RequestTypeCorrective = "corrective"
	RequestTypePreventive = "preventive"
)

// MaintenanceRequest is the central entity of the system: a single
// repair or maintenance job for a piece of equipment. The equipment,
// its category and the team are fixed at creation time (team always
// equals the equipment's maintenance team); the assignee and stage are
// mutated only through the assignment and stage-transition operations.
// Requests are never deleted; Repaired and Scrap are end states.
//
// Fields:
//  ID                  – primary key identifier.
//  RequestType         – "corrective" or "preventive".
//  Subject             – short summary.
//  Description         – optional free text.
//  EquipmentID         – equipment being serviced (immutable).
//  EquipmentCategoryID – category copied from the equipment at creation.
//  TeamID              – maintenance team copied from the equipment.
//  RequesterID         – user who filed the request (immutable).
//  AssignedToID        – current assignee (nullable).
//  StageID             – current lifecycle stage.
//  ScheduledStart/End  – optional planned window.
//  DueAt               – optional due date.
//  ActualDurationHours – set when the request reaches Repaired.
//  RepairedAt          – when the request reached Repaired.
//  CreatedAt/UpdatedAt – row timestamps.
type MaintenanceRequest struct {
	ID                  uint64     // maintenance_request.id
	RequestType         string     // maintenance_request.request_type
	Subject             string     // maintenance_request.subject
	Description         *string    // maintenance_request.description (nullable)
	EquipmentID         uint64     // maintenance_request.equipment_id
	EquipmentCategoryID uint64     // maintenance_request.equipment_category_id
	TeamID              uint64     // maintenance_request.team_id
	RequesterID         uint64     // maintenance_request.requester_id
	AssignedToID        *uint64    // maintenance_request.assigned_to_id (nullable)
	StageID             uint64     // maintenance_request.stage_id
	ScheduledStart      *time.Time // maintenance_request.scheduled_start (nullable)
	ScheduledEnd        *time.Time // maintenance_request.scheduled_end (nullable)
	DueAt               *time.Time // maintenance_request.due_at (nullable)
	ActualDurationHours *float64   // maintenance_request.actual_duration_hours (nullable)
	RepairedAt          *time.Time // maintenance_request.repaired_at (nullable)
	CreatedAt           time.Time  // maintenance_request.created_at
	UpdatedAt           time.Time  // maintenance_request.updated_at
}

// MaintenanceRequestLog is a row of the `maintenance_request_log` audit
// table recording field-level changes to a request.
type MaintenanceRequestLog struct {
	ID        uint64    // maintenance_request_log.id
	RequestID uint64    // maintenance_request_log.request_id
	ChangedBy *uint64   // maintenance_request_log.changed_by (nullable)
	FieldName string    // maintenance_request_log.field_name
	OldValue  *string   // maintenance_request_log.old_value (nullable)
	NewValue  *string   // maintenance_request_log.new_value (nullable)
	CreatedAt time.Time // maintenance_request_log.created_at
}
