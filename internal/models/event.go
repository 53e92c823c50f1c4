package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventApplied       = "applied"
	EventTracked       = "tracked"
	EventStatusChanged = "status_changed"
	EventNotesChanged  = "notes_changed"
)

// ApplicationEvent is one row of an application's change history.
type ApplicationEvent struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        string         `gorm:"column:user_id;type:text;index" json:"userId"`
	ApplicationID string         `gorm:"column:application_id;type:text;index" json:"applicationId"`
	Kind          string         `gorm:"column:kind;type:text" json:"kind"`
	Payload       datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	At            time.Time      `gorm:"column:at;type:timestamptz;index" json:"at"`
}

func (ApplicationEvent) TableName() string { return "application_events" }
