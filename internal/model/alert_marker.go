package model

import "time"

// AlertMarker records that an alert already fired for a license, lead time
// and calendar day. The composite unique index is what makes the dedup
// check-and-set atomic under concurrent dispatch.
type AlertMarker struct {
	ID        uint      `gorm:"primaryKey"`
	LicenseID string    `gorm:"uniqueIndex:idx_alert_marker_fire;not null"`
	LeadDays  int       `gorm:"uniqueIndex:idx_alert_marker_fire;not null"`
	MatchDate string    `gorm:"uniqueIndex:idx_alert_marker_fire;not null"` // YYYY-MM-DD
	CreatedAt time.Time
}
