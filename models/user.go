package models

import "time"

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleForeman UserRole = "foreman"
	UserRoleCrew    UserRole = "crew"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleForeman, UserRoleCrew:
		return true
	}
	return false
}

// User represents an account that can sign in. Crew users are bound to one crew.
type User struct {
	ID           int        `json:"id" dynamodbav:"id"`
	Username     string     `json:"username" dynamodbav:"username"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         UserRole   `json:"role" dynamodbav:"role"`
	CrewID       *int       `json:"crewId" dynamodbav:"crew_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" dynamodbav:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`

	PasswordChangedAt *time.Time     `json:"password_changed_at,omitempty" dynamodbav:"password_changed_at,omitempty"`
	Reset             *PasswordReset `json:"-" dynamodbav:"password_reset,omitempty"`
}

// PasswordReset is a pending reset. Only the sha256 of the token is kept.
type PasswordReset struct {
	TokenHash string    `json:"tokenHash" dynamodbav:"token_hash"`
	ExpiresAt time.Time `json:"expiresAt" dynamodbav:"expires_at"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.CrewID = cloneInt(u.CrewID)
	out.LastLoginAt = cloneTime(u.LastLoginAt)
	out.PasswordChangedAt = cloneTime(u.PasswordChangedAt)
	if u.Reset != nil {
		r := *u.Reset
		out.Reset = &r
	}
	return &out
}

// SignupRequest represents the request structure for self registration
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateUserRequest is used by administrators to add accounts
type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=64"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Role     UserRole `json:"role" validate:"required,oneof=admin foreman crew"`
	CrewID   *int     `json:"crewId" validate:"omitempty,min=1"`
}

type UpdateUserRequest struct {
	Role   UserRole `json:"role" validate:"omitempty,oneof=admin foreman crew"`
	CrewID *int     `json:"crewId" validate:"omitempty,min=1"`
}

// ResetRequest starts a password reset
type ResetRequest struct {
	Username string `json:"username" validate:"required"`
}

// ResetPasswordRequest completes a password reset with the issued token
type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	Token       string `json:"token" validate:"required,hexadecimal,len=40"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ResetResponse is returned by a reset request. Token is only filled outside production.
type ResetResponse struct {
	Token string `json:"token,omitempty"`
}
