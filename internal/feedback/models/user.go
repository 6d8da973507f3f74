package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. RoleSaasAdmin is the platform operator and the only role
// allowed to impersonate another tenant by slug.
const (
	RoleSaasAdmin = "SAAS_ADMIN"
	RoleGestor    = "gestor"
	RoleAtendente = "atendente"
)

// User is an authenticated operator. Non-admin users belong to exactly one
// company; the platform admin has no company of its own.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:120;not null" json:"name"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      string     `gorm:"size:30;default:gestor" json:"role"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"companyId,omitempty"`
	Active    bool       `gorm:"default:true" json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
