package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
)

func newTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserIDClaimTypes(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint64
	}{
		{"float64", float64(42), 42},
		{"uint64", uint64(42), 42},
		{"int64", int64(42), 42},
		{"string", "42", 42},
		{"json.Number", json.Number("42"), 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext()
			c.Set("user_id", tc.value)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetUserIDInvalid(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
	}{
		{"missing", nil},
		{"zero float", float64(0)},
		{"zero uint64", uint64(0)},
		{"negative", int64(-1)},
		{"garbage string", "abc"},
		{"bool", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext()
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			_, err := getUserID(c)
			assert.ErrorIs(t, err, errNoIdentity)
		})
	}
}

func TestGetActor(t *testing.T) {
	c := newTestContext()
	c.Set("user_id", float64(31))
	c.Set("role", "technician")

	actor, err := getActor(c)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Actor{ID: 31, Role: lifecycle.RoleTechnician}, actor)
}

func TestGetActorUnknownRole(t *testing.T) {
	c := newTestContext()
	c.Set("user_id", float64(31))

	actor, err := getActor(c)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.RoleUnknown, actor.Role)
}

func TestGetActorNoIdentity(t *testing.T) {
	c := newTestContext()
	_, err := getActor(c)
	assert.ErrorIs(t, err, errNoIdentity)
}
