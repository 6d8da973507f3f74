package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAttendantName is used when a public submission carries no attendant
// name. All anonymous reviews of a company collapse onto this record.
const DefaultAttendantName = "Geral"

// Attendant is a person being rated. Names are unique per company so that
// repeated public submissions with the same display name reuse one record.
type Attendant struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:120;not null;uniqueIndex:uniq_attendant_company_name" json:"name"`
	Phone         string    `gorm:"size:30" json:"phone"`
	IntegrationID string    `gorm:"size:120" json:"integrationId"`
	Sector        string    `gorm:"size:120" json:"sector"`
	Notify        bool      `gorm:"default:false" json:"notify"`
	Active        bool      `gorm:"default:true" json:"active"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_attendant_company_name" json:"companyId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// AttendantStats is an attendant row plus its review count, as shown on the
// dashboard roster.
type AttendantStats struct {
	Attendant
	ReviewCount int64 `json:"reviewCount"`
}
