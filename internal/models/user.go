package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Role is the single role a user holds. The set is closed: a role string the
// front-end does not know is rejected at decode time instead of silently
// failing every gate later.
type Role string

const (
	RoleRoom       Role = "ruangan"
	RoleReviewer   Role = "simrs"
	RoleTechnician Role = "teknisi"
	RoleAdmin      Role = "admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleRoom, RoleReviewer, RoleTechnician, RoleAdmin}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRoom, RoleReviewer, RoleTechnician, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// LabelKey returns the localization key for the role's display name.
func (r Role) LabelKey() string {
	switch r {
	case RoleRoom:
		return "role.ruangan"
	case RoleReviewer:
		return "role.simrs"
	case RoleTechnician:
		return "role.teknisi"
	case RoleAdmin:
		return "role.admin"
	default:
		return "role.unknown"
	}
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is an account as reported by the API.
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Room      string    `json:"ruangan"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRef points at a user. The API sends either a bare id or the populated
// user document; both decode into the same shape.
type UserRef struct {
	ID       string
	Username string
	Room     string
}

func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = UserRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*u = UserRef{ID: id}
		return nil
	}
	var doc struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
		Room     string `json:"ruangan"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*u = UserRef{ID: doc.ID, Username: doc.Username, Room: doc.Room}
	return nil
}

func (u UserRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string `json:"_id"`
		Username string `json:"username,omitempty"`
		Room     string `json:"ruangan,omitempty"`
	}{u.ID, u.Username, u.Room})
}

// Ref returns a reference to u.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Room: u.Room}
}

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username" form:"username" binding:"required,min=3"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// Registration is the payload for self-registration and admin-issued accounts.
type Registration struct {
	Username string `json:"username" form:"username" binding:"required,min=3"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Room     string `json:"ruangan" form:"ruangan" binding:"required"`
	Role     Role   `json:"role" form:"role" binding:"required,oneof=ruangan simrs teknisi admin"`
}

// SelfRegistration is the public sign-up form. Accounts created this way are
// always rooms; other roles are issued by an administrator.
type SelfRegistration struct {
	Username string `form:"username" binding:"required,min=3"`
	Password string `form:"password" binding:"required,min=6"`
	Room     string `form:"ruangan" binding:"required"`
}

// Registration returns the API payload for the sign-up.
func (r SelfRegistration) Registration() Registration {
	return Registration{Username: r.Username, Password: r.Password, Room: r.Room, Role: RoleRoom}
}

// UserUpdate carries the fields an administrator may change on an account.
type UserUpdate struct {
	Username string `json:"username,omitempty" form:"username"`
	Room     string `json:"ruangan,omitempty" form:"ruangan"`
	Role     Role   `json:"role,omitempty" form:"role" binding:"omitempty,oneof=ruangan simrs teknisi admin"`
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
