package model

import "time"

// User represents a row of the `app_user` table. Every authorization
// decision in the API keys off the Role field, which holds one of the
// three application roles: "manager", "technician" or "user" (requester).
// The json tags are omitted because these structs are used internally by
// the repository layer; handlers define their own response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FullName     – display name shown next to assignments.
//  Email        – unique login email (nullable for imported accounts).
//  PasswordHash – bcrypt hashed password.
//  AvatarURL    – optional profile image URL.
//  Role         – application role used for authorization.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64     // app_user.id
	FullName     string     // app_user.full_name
	Email        *string    // app_user.email (nullable)
	PasswordHash string     // app_user.password_hash
	AvatarURL    *string    // app_user.avatar_url (nullable)
	Role         string     // app_user.role
	IsActive     bool       // app_user.is_active
	CreatedAt    time.Time  // app_user.created_at
}
