// Package router wires HTTP routes to their handlers and mounts the
// per-group middleware: JWT auth and role enforcement on /v1, and the
// Redis response cache on the viewer-independent equipment reads.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gearguard/maintenance-api/internal/config"
	"github.com/gearguard/maintenance-api/internal/handler"
	"github.com/gearguard/maintenance-api/internal/middleware"
)

// RegisterHealth registers the unauthenticated probe endpoints used by
// load balancers and monitoring.
func RegisterHealth(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/health", h.Health)
	e.GET("/health/db", h.HealthDB)
}

// RegisterAuth registers the login endpoint (public) and the
// authenticated /v1/me profile endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/v1/auth/login", a.Login)

	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("manager", "technician", "user"))
	g.GET("/me", a.Me)
}

// RegisterRequests registers the maintenance-request endpoints. All of
// them require authentication; per-request authorization happens in the
// handlers and the lifecycle engine.
func RegisterRequests(e *echo.Echo, h *handler.RequestHandler, jwtSecret string) {
	g := e.Group("/v1/requests")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("manager", "technician", "user"))

	g.GET("", h.List)
	g.POST("", h.Create)
	// calendar must be registered before :id so Echo does not treat
	// "calendar" as a request id
	g.GET("/calendar", h.Calendar)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/assign", h.Assign)
	g.PATCH("/:id/stage", h.UpdateStage)
}

// RegisterEquipment registers the equipment endpoints. Detail and the
// open-count badge are viewer-independent, so the GET cache may be
// mounted on them; the per-equipment request listing is role-scoped and
// must never be cached.
func RegisterEquipment(e *echo.Echo, h *handler.EquipmentHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1/equipment")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("manager", "technician", "user"))

	cached := middleware.CacheGET(cacheCfg, rdb)
	g.GET("", h.List, cached)
	g.GET("/:id", h.Detail, cached)
	g.GET("/:id/requests/count", h.OpenCount, cached)
	g.GET("/:id/requests", h.ListRequests)
}

// RegisterTeams registers the team endpoints. Listing is available to
// every authenticated user; creating teams and editing membership is
// manager-only.
func RegisterTeams(e *echo.Echo, h *handler.TeamHandler, jwtSecret string) {
	g := e.Group("/v1/teams")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("manager", "technician", "user"))

	g.GET("", h.List)

	managerOnly := middleware.RequireRole("manager")
	g.POST("", h.Create, managerOnly)
	g.POST("/:id/members", h.AddMember, managerOnly)
	g.DELETE("/:id/members/:user_id", h.RemoveMember, managerOnly)
}
