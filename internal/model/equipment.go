package model

import "time"

// Equipment statuses. A piece of equipment starts "active" and becomes
// "unusable" as a side effect of a maintenance request reaching the
// scrap stage.
const (
	EquipmentStatusActive   = "active"
	EquipmentStatusUnusable = "unusable"
)

// Equipment represents a row of the `equipment` table. Each piece of
// equipment is maintained by exactly one team and names a default
// technician who is auto-assigned to new requests while they remain a
// member of that team. At least one of DepartmentID / OwnerUserID must
// be set (enforced by a table check constraint).
//
// Fields:
//  ID                  – primary key identifier.
//  Name                – display name.
//  SerialNumber        – unique serial number.
//  CategoryID          – equipment category.
//  DepartmentID        – owning department (nullable).
//  OwnerUserID         – owning user (nullable).
//  PurchaseDate        – optional purchase date.
//  WarrantyEndDate     – optional warranty expiry.
//  WarrantyVendor      – optional warranty vendor name.
//  LocationID          – optional physical location.
//  MaintenanceTeamID   – team responsible for maintenance.
//  DefaultTechnicianID – preferred assignee for new requests.
//  Status              – "active" or "unusable".
//  UnusableReason      – why the equipment was taken out of service.
//  UnusableAt          – when the equipment was taken out of service.
//  CreatedAt/UpdatedAt – row timestamps.
type Equipment struct {
	ID                  uint64     // equipment.id
	Name                string     // equipment.name
	SerialNumber        string     // equipment.serial_number
	CategoryID          uint64     // equipment.category_id
	DepartmentID        *uint64    // equipment.department_id (nullable)
	OwnerUserID         *uint64    // equipment.owner_user_id (nullable)
	PurchaseDate        *time.Time // equipment.purchase_date (nullable)
	WarrantyEndDate     *time.Time // equipment.warranty_end_date (nullable)
	WarrantyVendor      *string    // equipment.warranty_vendor (nullable)
	LocationID          *uint64    // equipment.location_id (nullable)
	MaintenanceTeamID   uint64     // equipment.maintenance_team_id
	DefaultTechnicianID uint64     // equipment.default_technician_id
	Status              string     // equipment.status
	UnusableReason      *string    // equipment.unusable_reason (nullable)
	UnusableAt          *time.Time // equipment.unusable_at (nullable)
	CreatedAt           time.Time  // equipment.created_at
	UpdatedAt           time.Time  // equipment.updated_at
}

// Department is a row of the `department` table.
type Department struct {
	ID   uint64 // department.id
	Name string // department.name
}

// EquipmentCategory is a row of the `equipment_category` table.
type EquipmentCategory struct {
	ID   uint64 // equipment_category.id
	Name string // equipment_category.name
}

// Location is a row of the `location` table.
type Location struct {
	ID      uint64  // location.id
	Name    string  // location.name
	Details *string // location.details (nullable)
}
