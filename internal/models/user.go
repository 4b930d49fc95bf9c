package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of a portal account.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleSales      Role = "SALES"
	RoleClient     Role = "CLIENT"
)

// Role groups used by the authorization checks.
var (
	AdminRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleSales}
	CMSRoles   = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor}
	SalesRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleSales}
)

// RoleLabelsFa maps roles to their Persian display labels.
var RoleLabelsFa = map[Role]string{
	RoleSuperAdmin: "سوپر ادمین",
	RoleAdmin:      "ادمین",
	RoleEditor:     "ادیتور",
	RoleSales:      "فروش",
	RoleClient:     "کاربر",
}

// HasAnyRole reports whether role is one of allowed.
func HasAnyRole(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a portal account: staff or client.
type User struct {
	ID           string  `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string  `gorm:"size:255;not null" json:"name"`
	Email        string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone        *string `gorm:"size:32" json:"phone,omitempty"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	Role         Role    `gorm:"size:32;not null;default:'CLIENT';index" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an application-generated UUID so primary keys work
// the same across every supported dialect.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
