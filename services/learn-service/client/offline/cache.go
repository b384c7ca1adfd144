package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aura-academy/portal/services/learn-service/client"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cache stores the last fetched content of each day for offline reading
type Cache struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCache creates a cache over an opened offline store
func NewCache(db *gorm.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// Put replaces the cached content of a day
func (c *Cache) Put(ctx context.Context, day *client.DayContent) error {
	raw, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("failed to encode day %d: %w", day.DayNumber, err)
	}
	row := CachedDay{DayNumber: day.DayNumber, Payload: raw, FetchedAt: c.now().UTC()}
	err = c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to cache day %d: %w", day.DayNumber, err)
	}
	return nil
}

// Get returns the cached content of a day and when it was fetched
func (c *Cache) Get(ctx context.Context, dayNumber int) (*client.DayContent, time.Time, bool, error) {
	var row CachedDay
	err := c.db.WithContext(ctx).First(&row, "day_number = ?", dayNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to read cached day %d: %w", dayNumber, err)
	}

	var day client.DayContent
	if err := json.Unmarshal(row.Payload, &day); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to decode cached day %d: %w", dayNumber, err)
	}
	return &day, row.FetchedAt, true, nil
}

// DayFetcher fetches day content from the learn service; *client.Client implements it
type DayFetcher interface {
	GetDay(ctx context.Context, day int) (*client.DayContent, error)
}

// FetchDay returns fresh content when the service answers and caches it.
// Transport failures fall back to the cached copy; API errors such as a locked day are returned as is.
func (c *Cache) FetchDay(ctx context.Context, remote DayFetcher, dayNumber int) (*client.DayContent, bool, error) {
	day, err := remote.GetDay(ctx, dayNumber)
	if err == nil {
		if day.Status != "error" {
			if putErr := c.Put(ctx, day); putErr != nil {
				return day, false, putErr
			}
		}
		return day, false, nil
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return nil, false, err
	}

	cached, _, ok, cacheErr := c.Get(ctx, dayNumber)
	if cacheErr != nil || !ok {
		return nil, false, err
	}
	return cached, true, nil
}
