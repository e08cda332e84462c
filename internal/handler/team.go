package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/maintenance-api/internal/repository"
)

// TeamHandler implements the maintenance-team endpoints. Listing is
// open to any authenticated caller; creation and membership changes are
// restricted to managers at the routing layer.
type TeamHandler struct {
	Teams *repository.TeamRepo
	Users *repository.UserRepo
}

// NewTeamHandler constructs a TeamHandler. All dependencies must be
// non-nil.
func NewTeamHandler(teams *repository.TeamRepo, users *repository.UserRepo) *TeamHandler {
	if teams == nil || users == nil {
		panic("nil repository passed to NewTeamHandler")
	}
	return &TeamHandler{Teams: teams, Users: users}
}

// List handles GET /v1/teams, returning every team with its members.
func (h *TeamHandler) List(c echo.Context) error {
	teams, err := h.Teams.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, teams)
}

// Create handles POST /v1/teams. Team names are unique; a duplicate
// yields 409.
func (h *TeamHandler) Create(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required", "field": "name"})
	}
	team, err := h.Teams.Create(c.Request().Context(), body.Name)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "team name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": team.ID, "name": team.Name})
}

// AddMember handles POST /v1/teams/:id/members. Adding an existing
// member is a no-op; both cases return 204.
func (h *TeamHandler) AddMember(c echo.Context) error {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || teamID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	var body struct {
		UserID uint64 `json:"user_id"`
	}
	if err := c.Bind(&body); err != nil || body.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required", "field": "user_id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	exists, err := h.Users.Exists(ctx, body.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := h.Teams.AddMember(ctx, teamID, body.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveMember handles DELETE /v1/teams/:id/members/:user_id. Removing
// a user who is not a member is a no-op; both cases return 204.
func (h *TeamHandler) RemoveMember(c echo.Context) error {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || teamID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Teams.RemoveMember(ctx, teamID, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
