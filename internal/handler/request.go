package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
	"github.com/gearguard/maintenance-api/internal/model"
	"github.com/gearguard/maintenance-api/internal/queue"
	"github.com/gearguard/maintenance-api/internal/repository"
	queue_publisher "github.com/gearguard/maintenance-api/internal/service"
)

// RequestHandler implements the maintenance-request endpoints: listing,
// creation, assignment, stage transitions and the preventive calendar.
// Authorization for mutations is delegated to the lifecycle engine; the
// handler resolves the data the engine needs, applies the commands it
// returns inside one transaction, and publishes domain events after the
// commit.
type RequestHandler struct {
	Requests  *repository.RequestRepo
	Equipment *repository.EquipmentRepo
	Teams     *repository.TeamRepo
	Stages    *repository.StageRepo
}

// NewRequestHandler constructs a RequestHandler. All dependencies must
// be non-nil.
func NewRequestHandler(requests *repository.RequestRepo, equipment *repository.EquipmentRepo, teams *repository.TeamRepo, stages *repository.StageRepo) *RequestHandler {
	if requests == nil || equipment == nil || teams == nil || stages == nil {
		panic("nil repository passed to NewRequestHandler")
	}
	return &RequestHandler{Requests: requests, Equipment: equipment, Teams: teams, Stages: stages}
}

// membership adapts the team repository into the engine's membership
// callback.
func (h *RequestHandler) membership(c echo.Context) lifecycle.MembershipFunc {
	return func(teamID, userID uint64) (bool, error) {
		return h.Teams.IsMember(c.Request().Context(), teamID, userID)
	}
}

// snapshot converts a stored request row into the engine's view of it.
func snapshot(m *model.MaintenanceRequest, stages *repository.StageMap) lifecycle.Request {
	return lifecycle.Request{
		ID:           m.ID,
		EquipmentID:  m.EquipmentID,
		TeamID:       m.TeamID,
		RequesterID:  m.RequesterID,
		AssignedToID: m.AssignedToID,
		Stage:        stages.Stage(m.StageID),
	}
}

// engineError maps lifecycle engine failures onto HTTP responses.
func engineError(c echo.Context, err error) error {
	var ve *lifecycle.ValidationError
	switch {
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transition"})
	case errors.Is(err, lifecycle.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed"})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Reason, "field": ve.Field})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseTimestamp parses a scheduled timestamp. RFC3339 and the naive
// "2006-01-02T15:04:05" form (treated as UTC) are accepted.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// List handles GET /v1/requests. Results are scoped by the caller's
// role via the shared visibility predicate.
func (h *RequestHandler) List(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	stages, err := h.Stages.Map(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	newID, _ := stages.ID(lifecycle.StageNew)
	requests, err := h.Requests.List(ctx, actor, newID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, requests)
}

// Get handles GET /v1/requests/:id. The visibility rules match the
// listings; a request the actor may not see reads as 404 so existence
// is not leaked.
func (h *RequestHandler) Get(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	req, stages, httpErr := h.loadRequest(c, requestID)
	if httpErr != nil {
		return httpErr
	}
	ctx := c.Request().Context()
	var memberTeams map[uint64]bool
	if actor.Role == lifecycle.RoleTechnician {
		ids, err := h.Teams.TeamIDsForUser(ctx, actor.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		memberTeams = make(map[uint64]bool, len(ids))
		for _, id := range ids {
			memberTeams[id] = true
		}
	}
	if !lifecycle.Visible(actor, snapshot(req, stages), memberTeams) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}
	detail, err := h.Requests.GetDetailByID(ctx, req.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Create handles POST /v1/requests. The team and category are derived
// from the equipment, never from the caller; the equipment's default
// technician is auto-assigned only while still a member of the
// equipment's team; the request starts in the New stage.
func (h *RequestHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Subject        string  `json:"subject"`
		Description    *string `json:"description"`
		RequestType    string  `json:"request_type"`
		EquipmentID    uint64  `json:"equipment_id"`
		ScheduledStart *string `json:"scheduled_start"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Subject == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject is required", "field": "subject"})
	}
	if body.RequestType != model.RequestTypeCorrective && body.RequestType != model.RequestTypePreventive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "request_type must be corrective or preventive", "field": "request_type"})
	}

	ctx := c.Request().Context()
	equipment, err := h.Equipment.GetByID(ctx, body.EquipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrEquipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var scheduled *time.Time
	if body.ScheduledStart != nil && *body.ScheduledStart != "" {
		t, err := parseTimestamp(*body.ScheduledStart)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scheduled_start", "field": "scheduled_start"})
		}
		scheduled = &t
	}

	assignee, err := lifecycle.InitialAssignee(equipment.DefaultTechnicianID, equipment.MaintenanceTeamID, h.membership(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	stages, err := h.Stages.Map(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	newID, _ := stages.ID(lifecycle.StageNew)

	req := &model.MaintenanceRequest{
		RequestType:         body.RequestType,
		Subject:             body.Subject,
		Description:         body.Description,
		EquipmentID:         equipment.ID,
		EquipmentCategoryID: equipment.CategoryID,
		TeamID:              equipment.MaintenanceTeamID,
		RequesterID:         actor.ID,
		AssignedToID:        assignee,
		StageID:             newID,
		ScheduledStart:      scheduled,
	}

	tx, err := h.Requests.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Requests.CreateTx(ctx, tx, req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create request"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Best-effort event; a broker outage never fails the request.
	_ = queue_publisher.PublishRequestCreated(ctx, queue.RequestCreatedEvent{
		RequestID:     req.ID,
		Subject:       req.Subject,
		RequestType:   req.RequestType,
		EquipmentID:   equipment.ID,
		EquipmentName: equipment.Name,
		TeamID:        req.TeamID,
		RequesterID:   req.RequesterID,
		AssignedToID:  req.AssignedToID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	detail, err := h.Requests.GetDetailByID(ctx, req.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, detail)
}

// Assign handles PATCH /v1/requests/:id/assign. The engine enforces the
// role gate and the assignee-in-team rule, and auto-advances a new
// request to in_progress.
func (h *RequestHandler) Assign(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var body struct {
		AssignedToID uint64 `json:"assigned_to_id"`
	}
	if err := c.Bind(&body); err != nil || body.AssignedToID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "assigned_to_id is required"})
	}

	ctx := c.Request().Context()
	req, stages, httpErr := h.loadRequest(c, requestID)
	if httpErr != nil {
		return httpErr
	}
	cmds, err := lifecycle.Assign(snapshot(req, stages), body.AssignedToID, actor, h.membership(c))
	if err != nil {
		return engineError(c, err)
	}
	if httpErr := h.applyCommands(c, actor, req, stages, cmds); httpErr != nil {
		return httpErr
	}
	detail, err := h.Requests.GetDetailByID(ctx, req.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateStage handles PATCH /v1/requests/:id/stage. The engine
// validates the transition and returns the commands to persist; a scrap
// transition additionally marks the equipment unusable in the same
// transaction and publishes an event once committed.
func (h *RequestHandler) UpdateStage(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var body struct {
		Stage               string   `json:"stage"`
		ActualDurationHours *float64 `json:"actual_duration_hours"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target := lifecycle.ParseStage(body.Stage)
	if target == lifecycle.StageUnknown {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown stage", "field": "stage"})
	}

	ctx := c.Request().Context()
	req, stages, httpErr := h.loadRequest(c, requestID)
	if httpErr != nil {
		return httpErr
	}
	cmds, err := lifecycle.ApplyStageChange(snapshot(req, stages), target, body.ActualDurationHours, actor, h.membership(c))
	if err != nil {
		return engineError(c, err)
	}
	if httpErr := h.applyCommands(c, actor, req, stages, cmds); httpErr != nil {
		return httpErr
	}
	detail, err := h.Requests.GetDetailByID(ctx, req.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Calendar handles GET /v1/requests/calendar. Only preventive requests
// with a scheduled start inside the optional range are returned, scoped
// by the same visibility predicate as List.
func (h *RequestHandler) Calendar(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var start, end *time.Time
	if s := c.QueryParam("start"); s != "" {
		t, err := parseTimestamp(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range"})
		}
		start = &t
	}
	if s := c.QueryParam("end"); s != "" {
		t, err := parseTimestamp(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range"})
		}
		end = &t
	}
	ctx := c.Request().Context()
	stages, err := h.Stages.Map(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	newID, _ := stages.ID(lifecycle.StageNew)
	requests, err := h.Requests.Calendar(ctx, actor, newID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, requests)
}

// loadRequest fetches the request row and the stage map, translating a
// missing row into a 404. The returned echo error is non-nil when a
// response was already written.
func (h *RequestHandler) loadRequest(c echo.Context, id uint64) (*model.MaintenanceRequest, *repository.StageMap, error) {
	ctx := c.Request().Context()
	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	stages, err := h.Stages.Map(ctx)
	if err != nil {
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return req, stages, nil
}

// applyCommands persists the engine's commands in one transaction,
// appending an audit log row per field change, and publishes the scrap
// event after a successful commit. The returned echo error is non-nil
// when a response was already written.
func (h *RequestHandler) applyCommands(c echo.Context, actor lifecycle.Actor, req *model.MaintenanceRequest, stages *repository.StageMap, cmds []lifecycle.Command) error {
	ctx := c.Request().Context()
	tx, err := h.Requests.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var scrapped *lifecycle.SetEquipmentStatus
	for _, cmd := range cmds {
		var err error
		switch cmd := cmd.(type) {
		case lifecycle.SetAssignee:
			oldAssignee := ""
			if req.AssignedToID != nil {
				oldAssignee = strconv.FormatUint(*req.AssignedToID, 10)
			}
			err = h.Requests.UpdateAssigneeTx(ctx, tx, req.ID, cmd.UserID)
			if err == nil {
				err = h.Requests.InsertLogTx(ctx, tx, req.ID, actor.ID, "assigned_to_id", oldAssignee, strconv.FormatUint(cmd.UserID, 10))
			}
		case lifecycle.SetStage:
			stageID, ok := stages.ID(cmd.Stage)
			if !ok {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stage registry incomplete"})
			}
			err = h.Requests.UpdateStageTx(ctx, tx, req.ID, stageID)
			if err == nil {
				err = h.Requests.InsertLogTx(ctx, tx, req.ID, actor.ID, "stage_id", stages.Stage(req.StageID).String(), cmd.Stage.String())
			}
		case lifecycle.SetDuration:
			err = h.Requests.UpdateDurationTx(ctx, tx, req.ID, cmd.Hours)
		case lifecycle.SetEquipmentStatus:
			err = h.Equipment.MarkUnusableTx(ctx, tx, cmd.EquipmentID, cmd.Reason)
			scrapped = &cmd
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply change"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if scrapped != nil {
		equipmentName := ""
		if equipment, err := h.Equipment.GetByID(ctx, scrapped.EquipmentID); err == nil {
			equipmentName = equipment.Name
		}
		_ = queue_publisher.PublishEquipmentScrapped(ctx, queue.EquipmentScrappedEvent{
			RequestID:     req.ID,
			EquipmentID:   scrapped.EquipmentID,
			EquipmentName: equipmentName,
			Reason:        scrapped.Reason,
			ScrappedAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}
	return nil
}
