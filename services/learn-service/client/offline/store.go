// Package offline keeps student writes and fetched lessons in a local SQLite file
// so the player and lesson pages keep working without a connection.
package offline

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EntryKind names the write replayed by a queue entry
type EntryKind string

const (
	KindProgress   EntryKind = "progress"
	KindCompletion EntryKind = "completion"
	KindBookmark   EntryKind = "bookmark"
)

// Entry is a queued write waiting for a connection
type Entry struct {
	ID        uint      `gorm:"primaryKey"`
	Kind      EntryKind `gorm:"size:20;not null"`
	Payload   []byte    `gorm:"not null"`
	Attempts  int       `gorm:"not null;default:0"`
	LastError string
	CreatedAt time.Time
}

// TableName overrides the default table name
func (Entry) TableName() string {
	return "offline_queue"
}

// CachedDay is the last fetched content of a day
type CachedDay struct {
	DayNumber int    `gorm:"primaryKey;autoIncrement:false"`
	Payload   []byte `gorm:"not null"`
	FetchedAt time.Time
}

// TableName overrides the default table name
func (CachedDay) TableName() string {
	return "offline_days"
}

// Open opens (or creates) the SQLite file at path and migrates its tables
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open offline store: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}, &CachedDay{}); err != nil {
		return nil, fmt.Errorf("failed to migrate offline store: %w", err)
	}
	return db, nil
}
