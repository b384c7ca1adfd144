package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAutosaveInterval = 10 * time.Second
	defaultSeekPoll         = 100 * time.Millisecond
	defaultSeekTimeout      = 5 * time.Second
	completionThreshold     = 90.0
)

// PlaybackSource is the media element driven by the player
type PlaybackSource interface {
	// Position is the current playback position in seconds
	Position() float64
	// Duration is the media length in seconds, 0 while unknown
	Duration() float64
	// CanSeek reports whether the media is ready to accept a seek
	CanSeek() bool
	Seek(seconds float64)
}

// ProgressStore persists playback positions
type ProgressStore interface {
	SaveProgress(ctx context.Context, videoID string, update ProgressUpdate) error
	GetProgress(ctx context.Context, videoID string) (*VideoProgress, error)
}

// PlayerOption configures a Player
type PlayerOption func(*Player)

// WithAutosaveInterval sets how often progress is saved while playing
func WithAutosaveInterval(d time.Duration) PlayerOption {
	return func(p *Player) { p.interval = d }
}

// WithSeekPolling sets how often and how long Resume waits for the media to become seekable
func WithSeekPolling(poll, timeout time.Duration) PlayerOption {
	return func(p *Player) {
		p.seekPoll = poll
		p.seekTimeout = timeout
	}
}

// Player tracks playback of one video: it resumes at the stored position
// and saves progress periodically while playing and once when playback stops.
// Without a session every save is silently skipped.
type Player struct {
	store       ProgressStore
	source      PlaybackSource
	videoID     string
	logger      *zap.Logger
	interval    time.Duration
	seekPoll    time.Duration
	seekTimeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a player for videoID
func NewPlayer(store ProgressStore, source PlaybackSource, videoID string, logger *zap.Logger, opts ...PlayerOption) *Player {
	p := &Player{
		store:       store,
		source:      source,
		videoID:     videoID,
		logger:      logger,
		interval:    defaultAutosaveInterval,
		seekPoll:    defaultSeekPoll,
		seekTimeout: defaultSeekTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resume seeks to the stored position once the media can seek.
// It returns the position sought, 0 when nothing was stored or the media never became seekable.
func (p *Player) Resume(ctx context.Context) (float64, error) {
	progress, err := p.store.GetProgress(ctx, p.videoID)
	if errors.Is(err, ErrNoSession) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if progress.LastPosition <= 0 {
		return 0, nil
	}

	deadline := time.NewTimer(p.seekTimeout)
	defer deadline.Stop()
	poll := time.NewTicker(p.seekPoll)
	defer poll.Stop()

	for !p.source.CanSeek() {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-deadline.C:
			p.logger.Debug("media never became seekable", zap.String("videoID", p.videoID))
			return 0, nil
		case <-poll.C:
		}
	}
	p.source.Seek(progress.LastPosition)
	return progress.LastPosition, nil
}

// Play starts the autosave loop. Calling Play while playing does nothing.
func (p *Player) Play(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.autosave(loopCtx, p.done)
}

func (p *Player) autosave(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.save(ctx, false)
		}
	}
}

// Stop ends the autosave loop and saves the current position once
func (p *Player) Stop(ctx context.Context) {
	p.halt()
	p.save(ctx, false)
}

// End stops playback at the end of the media and saves it as completed
func (p *Player) End(ctx context.Context) {
	p.halt()
	p.save(ctx, true)
}

func (p *Player) halt() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *Player) save(ctx context.Context, ended bool) {
	update := ProgressUpdate{Position: p.source.Position(), Completed: ended}
	if d := p.source.Duration(); d > 0 {
		update.Percentage = update.Position / d * 100
		if ended {
			update.Percentage = 100
		}
	}
	if update.Percentage >= completionThreshold {
		update.Completed = true
	}

	err := p.store.SaveProgress(ctx, p.videoID, update)
	if err != nil && !errors.Is(err, ErrNoSession) && !errors.Is(err, context.Canceled) {
		p.logger.Warn("failed to save video progress", zap.String("videoID", p.videoID), zap.Error(err))
	}
}
