package types

import "time"

// Verification is one completed verification, kept for history and audits.
// Factors and Claims store the JSON exactly as returned to the caller.
type Verification struct {
	ID          string `gorm:"primaryKey;size:36"`
	ContentHash string `gorm:"size:16;index;not null"`
	URL         string `gorm:"size:2048"`
	Vertical    string `gorm:"size:32;not null"`
	Confidence  float64
	Factors     string `gorm:"type:text"`
	Claims      string `gorm:"type:mediumtext"`
	CreatedAt   time.Time
}
