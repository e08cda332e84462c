package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler exposes liveness endpoints for load balancers and
// monitoring.
type HealthHandler struct {
	DB *sql.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Health handles GET /health.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// HealthDB handles GET /health/db by issuing a trivial query.
func (h *HealthHandler) HealthDB(c echo.Context) error {
	var one int
	if err := h.DB.QueryRowContext(c.Request().Context(), "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"db": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"db": "ok"})
}
