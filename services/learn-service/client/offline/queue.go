package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aura-academy/portal/services/learn-service/client"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Replayer sends queued writes to the learn service; *client.Client implements it.
// Every call sets a state, so replaying an entry that already reached the
// server leaves the same result.
type Replayer interface {
	SaveProgress(ctx context.Context, videoID string, update client.ProgressUpdate) error
	SetCompletion(ctx context.Context, day int, completed bool) (*client.CompletionState, error)
	PutBookmark(ctx context.Context, videoID string, timestamp float64, note string) (*client.Bookmark, error)
	RemoveBookmark(ctx context.Context, videoID string, timestamp float64) error
}

// ProgressPayload is the payload of a progress entry
type ProgressPayload struct {
	VideoID string                `json:"videoId"`
	Update  client.ProgressUpdate `json:"update"`
}

// CompletionPayload is the payload of a completion entry
type CompletionPayload struct {
	Day       int  `json:"day"`
	Completed bool `json:"completed"`
}

// BookmarkPayload is the payload of a bookmark entry
type BookmarkPayload struct {
	VideoID    string  `json:"videoId"`
	Timestamp  float64 `json:"timestamp"`
	Note       string  `json:"note"`
	Bookmarked bool    `json:"bookmarked"`
}

// DrainResult counts what a drain did
type DrainResult struct {
	Replayed int
	Failed   int
}

// Queue persists writes made while offline and replays them in order once online.
// Drains are serialized; each drain works on a snapshot, so entries added
// during a drain wait for the next one.
type Queue struct {
	db     *gorm.DB
	remote Replayer
	logger *zap.Logger
	online atomic.Bool
	drain  sync.Mutex
}

// NewQueue creates a queue over an opened offline store. The queue starts offline.
func NewQueue(db *gorm.DB, remote Replayer, logger *zap.Logger) *Queue {
	return &Queue{
		db:     db,
		remote: remote,
		logger: logger,
	}
}

// QueueProgress queues a playback position
func (q *Queue) QueueProgress(ctx context.Context, videoID string, update client.ProgressUpdate) error {
	return q.Enqueue(ctx, KindProgress, ProgressPayload{VideoID: videoID, Update: update})
}

// QueueCompletion queues the completion state of a day
func (q *Queue) QueueCompletion(ctx context.Context, day int, completed bool) error {
	return q.Enqueue(ctx, KindCompletion, CompletionPayload{Day: day, Completed: completed})
}

// QueueBookmark queues whether a bookmark should exist at a playback position
func (q *Queue) QueueBookmark(ctx context.Context, videoID string, timestamp float64, note string, bookmarked bool) error {
	return q.Enqueue(ctx, KindBookmark, BookmarkPayload{VideoID: videoID, Timestamp: timestamp, Note: note, Bookmarked: bookmarked})
}

// Enqueue appends a write and drains the queue when online.
// Only a failure to persist the entry is returned; replay failures stay queued.
func (q *Queue) Enqueue(ctx context.Context, kind EntryKind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}
	if err := q.db.WithContext(ctx).Create(&Entry{Kind: kind, Payload: raw}).Error; err != nil {
		return fmt.Errorf("failed to queue %s: %w", kind, err)
	}

	if q.online.Load() {
		if _, err := q.Drain(ctx); err != nil {
			q.logger.Warn("offline queue drain failed", zap.Error(err))
		}
	}
	return nil
}

// SetOnline records connectivity; going online drains the queue
func (q *Queue) SetOnline(ctx context.Context, online bool) (DrainResult, error) {
	q.online.Store(online)
	if !online {
		return DrainResult{}, nil
	}
	return q.Drain(ctx)
}

// Online reports the last connectivity state
func (q *Queue) Online() bool {
	return q.online.Load()
}

// Pending returns the queued entries oldest first
func (q *Queue) Pending(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := q.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read offline queue: %w", err)
	}
	return entries, nil
}

// Drain replays a snapshot of the queue oldest first. Replayed entries are
// deleted; failed ones stay with their attempt count and last error.
func (q *Queue) Drain(ctx context.Context) (DrainResult, error) {
	q.drain.Lock()
	defer q.drain.Unlock()

	var result DrainResult
	snapshot, err := q.Pending(ctx)
	if err != nil {
		return result, err
	}

	for _, entry := range snapshot {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if replayErr := q.replay(ctx, entry); replayErr != nil {
			result.Failed++
			q.logger.Debug("offline entry replay failed",
				zap.Uint("entryID", entry.ID),
				zap.String("kind", string(entry.Kind)),
				zap.Error(replayErr),
			)
			err := q.db.WithContext(ctx).Model(&Entry{}).Where("id = ?", entry.ID).Updates(map[string]any{
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": replayErr.Error(),
			}).Error
			if err != nil {
				return result, fmt.Errorf("failed to record replay failure: %w", err)
			}
			continue
		}

		if err := q.db.WithContext(ctx).Delete(&Entry{}, entry.ID).Error; err != nil {
			return result, fmt.Errorf("failed to remove replayed entry: %w", err)
		}
		result.Replayed++
	}
	return result, nil
}

var errUnknownKind = errors.New("unknown entry kind")

func (q *Queue) replay(ctx context.Context, entry Entry) error {
	switch entry.Kind {
	case KindProgress:
		var p ProgressPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return err
		}
		return q.remote.SaveProgress(ctx, p.VideoID, p.Update)
	case KindCompletion:
		var p CompletionPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return err
		}
		_, err := q.remote.SetCompletion(ctx, p.Day, p.Completed)
		return err
	case KindBookmark:
		var p BookmarkPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return err
		}
		if !p.Bookmarked {
			return q.remote.RemoveBookmark(ctx, p.VideoID, p.Timestamp)
		}
		_, err := q.remote.PutBookmark(ctx, p.VideoID, p.Timestamp, p.Note)
		return err
	default:
		return fmt.Errorf("%w: %q", errUnknownKind, entry.Kind)
	}
}
