package model

import "time"

type MarkerEventType string

const (
	MarkerEventCreated MarkerEventType = "marker.created"
	MarkerEventDeleted MarkerEventType = "marker.deleted"
	MarkerEventCleared MarkerEventType = "marker.cleared"
)

type MarkerEvent struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Type       MarkerEventType `gorm:"size:32;not null;index" json:"type"`
	MarkerID   *uint           `json:"marker_id,omitempty"`
	UserID     *uint           `json:"user_id,omitempty"`
	Category   Category        `gorm:"size:32" json:"category,omitempty"`
	Count      int64           `gorm:"not null;default:0" json:"count"`
	OccurredAt time.Time       `gorm:"index" json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (MarkerEvent) TableName() string {
	return "marker_events"
}
