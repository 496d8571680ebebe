package models

import "time"

// Role is the closed set of account roles. Permission decisions are made
// through the capability table in internal/permissions, not by comparing
// role strings in handlers.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ReservedUsername can never be registered; /users/me routes would shadow it.
const ReservedUsername = "me"

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Role      Role   `gorm:"size:32;default:'user';not null" json:"role"`
	// Superusers pass every permission check regardless of role.
	IsSuperuser bool `gorm:"not null;default:false" json:"-"`
	// Bcrypt hash of the last confirmation code issued at signup. Overwritten
	// on every signup, never cleared after a successful token exchange.
	ConfirmationCodeHash string    `gorm:"size:60" json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
