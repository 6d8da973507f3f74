// Package models defines the persistent domain entities of the feedback
// platform. Company is the tenancy root; every Attendant, Review and User
// hangs off exactly one Company.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription tier of a company. The tier controls how many
// attendants the company may register.
type Plan string

const (
	// PlanGratis is the free tier.
	PlanGratis Plan = "GRATIS"
	// PlanPequenas is the small-business tier.
	PlanPequenas Plan = "PEQUENAS"
	// PlanGrandes is the top tier with no attendant ceiling.
	PlanGrandes Plan = "GRANDES"
)

// AttendantLimit returns the maximum number of attendants allowed for the
// plan. Unlimited plans return -1. Unknown tiers fall back to the free-tier
// ceiling.
func (p Plan) AttendantLimit() int {
	switch p {
	case PlanGratis:
		return 5
	case PlanPequenas:
		return 20
	case PlanGrandes:
		return -1
	default:
		return 5
	}
}

// NotificationSettings is the versioned notification configuration of a
// company. It is stored as a JSON column; older rows may hold a
// double-encoded string blob, which Scan tolerates.
type NotificationSettings struct {
	WebhookURL      string   `json:"webhookUrl,omitempty"`
	WhatsappNumbers []string `json:"whatsappNumbers,omitempty"`
}

// Value implements driver.Valuer.
func (n NotificationSettings) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements sql.Scanner.
func (n *NotificationSettings) Scan(src interface{}) error {
	if src == nil {
		*n = NotificationSettings{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported notification settings type %T", src)
	}
	if len(data) == 0 {
		*n = NotificationSettings{}
		return nil
	}
	// Legacy rows were written as a JSON string containing JSON.
	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		data = []byte(inner)
	}
	return json.Unmarshal(data, n)
}

// JSONMap is a loosely structured JSON object column (company settings).
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(JSONMap{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported settings type %T", src)
	}
	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Company is a tenant. The slug is the public routing key used by the
// evaluation page and must be globally unique.
type Company struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string               `gorm:"size:120;not null" json:"name"`
	Slug          string               `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Plan          Plan                 `gorm:"size:20;default:GRATIS" json:"plan"`
	Active        bool                 `gorm:"default:true" json:"active"`
	Logo          string               `gorm:"size:255" json:"logo"`
	PrimaryColor  string               `gorm:"size:20" json:"primaryColor"`
	Area          string               `gorm:"size:120" json:"area"`
	Whatsapp      string               `gorm:"size:30" json:"whatsapp"`
	Settings      JSONMap              `gorm:"type:jsonb" json:"settings"`
	Notifications NotificationSettings `gorm:"type:jsonb" json:"notifications"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`

	Attendants []Attendant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Users      []User      `json:"-"`
}

// CompanyUpdate carries the fields that may be changed on a Company.
// Pointer types allow partial updates.
type CompanyUpdate struct {
	ID            uuid.UUID
	Name          *string
	Plan          *Plan
	Active        *bool
	Logo          *string
	PrimaryColor  *string
	Area          *string
	Whatsapp      *string
	Settings      *JSONMap
	Notifications *NotificationSettings
}

// CompanyOverview is a company row enriched with tenant-wide counters,
// used by the platform admin listing.
type CompanyOverview struct {
	Company
	AttendantCount int64 `json:"attendantCount"`
	ReviewCount    int64 `json:"reviewCount"`
}
