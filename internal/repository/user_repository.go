package repository

import (
	"context"
	"database/sql"
	"strings"
)

// UserRepo provides lookups against the app_user table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// UserRecord mirrors the columns of app_user needed by handlers.
type UserRecord struct {
	ID           uint64
	FullName     string
	Email        *string
	PasswordHash string
	AvatarURL    *string
	Role         string
	IsActive     bool
}

func scanUser(row *sql.Row) (*UserRecord, error) {
	var u UserRecord
	var email, avatar sql.NullString
	err := row.Scan(&u.ID, &u.FullName, &email, &u.PasswordHash, &avatar, &u.Role, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		e := email.String
		u.Email = &e
	}
	if avatar.Valid {
		a := avatar.String
		u.AvatarURL = &a
	}
	return &u, nil
}

// GetByID returns a single user or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*UserRecord, error) {
	const q = `SELECT id, full_name, email, password_hash, avatar_url, role, is_active FROM app_user WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// GetByEmail returns a single user by email or ErrUserNotFound. Emails
// are compared case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	const q = `SELECT id, full_name, email, password_hash, avatar_url, role, is_active FROM app_user WHERE LOWER(email) = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, strings.ToLower(email)))
}

// Exists reports whether a user row with the given id exists.
func (r *UserRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	const q = `SELECT 1 FROM app_user WHERE id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
