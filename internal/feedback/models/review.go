package models

import (
	"time"

	"github.com/google/uuid"
)

// Star rating bounds. Ratings are immutable once stored; only the comment
// may be amended afterwards.
const (
	MinStars = 1
	MaxStars = 5
)

// Review is a single feedback event submitted through the public page.
// Client metadata is stored verbatim for the dashboard map view.
type Review struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Stars       int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	Comment     string    `gorm:"size:3000" json:"comment"`
	IP          string    `gorm:"size:45" json:"ip"`
	City        string    `gorm:"size:120" json:"city"`
	State       string    `gorm:"size:60" json:"state"`
	Device      string    `gorm:"size:255" json:"device"`
	Location    string    `gorm:"size:500" json:"location"`
	AttendantID uuid.UUID `gorm:"type:uuid;not null;index" json:"attendantId"`
	CreatedAt   time.Time `json:"createdAt"`

	Attendant *Attendant `json:"attendant,omitempty"`
}

// ReviewSubmission is the payload of the public evaluation form.
type ReviewSubmission struct {
	Rating      int    `json:"rating"`
	Observation string `json:"observation"`
	Attendant   string `json:"attendant"`
	IP          string `json:"ip"`
	City        string `json:"city"`
	State       string `json:"state"`
	Device      string `json:"device"`
	LinkMaps    string `json:"link_maps"`
	CompanySlug string `json:"companySlug"`
}

// ReviewFilter narrows the authenticated review listing.
type ReviewFilter struct {
	Page      int
	Limit     int
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	MinStars  int
}

// StateCount is the number of reviews originating from one client state.
type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}
