// Package repository implements data access over the relational store.
// Repositories own their SQL, expose transaction-scoped variants with a
// Tx suffix and return the sentinel errors below so handlers can map
// failures onto HTTP responses without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when an insert collides with existing state,
// such as creating a team whose name is already taken. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Not-found sentinels for point lookups. Handlers translate these into
// HTTP 404 responses.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrRequestNotFound   = errors.New("request not found")
	ErrStageNotFound     = errors.New("stage not found")
)

// isDuplicateKey reports whether err is MySQL's duplicate-entry error
// (1062). Repositories rely on unique keys to arbitrate concurrent
// inserts and map the loser onto ErrConflict instead of a raw driver
// error.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
