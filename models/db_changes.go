package models

import (
	"time"
)

// DBChange is one row of the change feed filled by the SQL triggers on the
// orders, vendors and products tables. The change monitor polls it and
// turns unprocessed rows into realtime events.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   string    `gorm:"type:varchar(64);not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}
