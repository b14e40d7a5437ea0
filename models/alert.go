package models

import "time"

type Alert struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	AlertID   string `gorm:"size:36;index"` // correlation id from the engine
	EventType string `gorm:"size:32"`       // "critical_risk" | …
	Message   string `gorm:"type:text"`
	Payload   string `gorm:"type:text"` // JSON payload as delivered
	CreatedAt time.Time
}
