package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
	"github.com/gearguard/maintenance-api/internal/repository"
)

// EquipmentHandler implements the equipment endpoints: the filtered
// listing with open-request counts, single-item detail, the standalone
// open count and the per-equipment request listing.
type EquipmentHandler struct {
	Equipment *repository.EquipmentRepo
	Requests  *repository.RequestRepo
	Stages    *repository.StageRepo
}

// NewEquipmentHandler constructs an EquipmentHandler. All dependencies
// must be non-nil.
func NewEquipmentHandler(equipment *repository.EquipmentRepo, requests *repository.RequestRepo, stages *repository.StageRepo) *EquipmentHandler {
	if equipment == nil || requests == nil || stages == nil {
		panic("nil repository passed to NewEquipmentHandler")
	}
	return &EquipmentHandler{Equipment: equipment, Requests: requests, Stages: stages}
}

// List handles GET /v1/equipment with optional department_id,
// owner_user_id and q filters.
func (h *EquipmentHandler) List(c echo.Context) error {
	var filter repository.EquipmentFilter
	if s := c.QueryParam("department_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid department_id"})
		}
		filter.DepartmentID = &id
	}
	if s := c.QueryParam("owner_user_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid owner_user_id"})
		}
		filter.OwnerUserID = &id
	}
	filter.Query = c.QueryParam("q")

	items, err := h.Equipment.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Detail handles GET /v1/equipment/:id.
func (h *EquipmentHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid equipment id"})
	}
	e, err := h.Equipment.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEquipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	resp := echo.Map{
		"id":                    e.ID,
		"name":                  e.Name,
		"serial_number":         e.SerialNumber,
		"category_id":           e.CategoryID,
		"department_id":         e.DepartmentID,
		"owner_user_id":         e.OwnerUserID,
		"location_id":           e.LocationID,
		"maintenance_team_id":   e.MaintenanceTeamID,
		"default_technician_id": e.DefaultTechnicianID,
		"status":                e.Status,
		"unusable_reason":       e.UnusableReason,
		"created_at":            e.CreatedAt.UTC().Format(time.RFC3339),
	}
	return c.JSON(http.StatusOK, resp)
}

// OpenCount handles GET /v1/equipment/:id/requests/count, the compact
// badge payload used by clients next to an equipment name.
func (h *EquipmentHandler) OpenCount(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid equipment id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Equipment.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEquipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	n, err := h.Equipment.OpenRequestCount(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"equipment_id": id, "open_requests": n})
}

// ListRequests handles GET /v1/equipment/:id/requests. The listing
// applies the same role-based visibility predicate as the main request
// list.
func (h *EquipmentHandler) ListRequests(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid equipment id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Equipment.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEquipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	stages, err := h.Stages.Map(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	newID, _ := stages.ID(lifecycle.StageNew)
	items, err := h.Requests.ListByEquipment(ctx, actor, newID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}
