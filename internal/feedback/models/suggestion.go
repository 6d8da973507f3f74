package models

import "time"

// Suggestion is a platform-wide feature request with like/dislike counters.
// Suggestions are not scoped to a tenant.
type Suggestion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:2000;not null" json:"text"`
	Likes     int64     `gorm:"default:0" json:"likes"`
	Dislikes  int64     `gorm:"default:0" json:"dislikes"`
	CreatedAt time.Time `json:"createdAt"`
}
