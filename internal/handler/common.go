package handler // handler implements the HTTP endpoints of the API

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
)

var errNoIdentity = errors.New("no authenticated user in context")

// getUserID extracts the numeric user id stored in the context by the
// JWTAuth middleware. JSON decoding yields float64 for numeric claims,
// but string and json.Number are tolerated as well.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v > 0 {
			return uint64(v), nil
		}
	case uint64:
		if v > 0 {
			return v, nil
		}
	case int64:
		if v > 0 {
			return uint64(v), nil
		}
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			return id, nil
		}
	case json.Number:
		if id, err := strconv.ParseUint(v.String(), 10, 64); err == nil {
			return id, nil
		}
	}
	return 0, errNoIdentity
}

// getActor builds the lifecycle actor for the authenticated caller from
// the claims the JWTAuth middleware stored in the context.
func getActor(c echo.Context) (lifecycle.Actor, error) {
	id, err := getUserID(c)
	if err != nil {
		return lifecycle.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return lifecycle.Actor{ID: id, Role: lifecycle.ParseRole(role)}, nil
}
