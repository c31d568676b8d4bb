package models

import (
	"strings"
	"time"
)

// Role is the authorization level stored on a user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored value to a Role. Anything unrecognized is treated as a
// regular user so a corrupted record can never grant admin rights.
func ParseRole(raw string) Role {
	switch Role(strings.TrimSpace(raw)) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// User is created lazily on the first authenticated request. ID is the Firebase uid.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// AuthContext is the resolved identity of the caller.
type AuthContext struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the caller holds the admin role.
func (a AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the caller owns the resource or is an admin.
func (a AuthContext) CanManage(ownerID string) bool {
	return a.UID == ownerID || a.IsAdmin()
}
