package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aura-academy/portal/services/task-service/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job names stored in job_runs
const (
	JobDripReminders = "drip_reminders"
	JobTokenCleanup  = "token_cleanup"
)

const (
	templateDayUnlocked = "day_unlocked"
	reminderLockTTL     = 48 * time.Hour
	reminderConcurrency = 8
	jobTimeout          = 10 * time.Minute
)

// UnlockSource lists students whose next course day opens on a date
type UnlockSource interface {
	UnlockedOn(ctx context.Context, date time.Time) ([]models.DripUnlock, error)
}

// TokenCleaner removes expired refresh tokens on the auth service
type TokenCleaner interface {
	CleanExpiredTokens(ctx context.Context) (int, error)
}

// Notifier queues templated e-mails
type Notifier interface {
	Send(ctx context.Context, req *models.SendEmailRequest) (*models.SendEmailResponse, error)
}

// JobRunRepository records scheduler job executions
type JobRunRepository interface {
	Create(ctx context.Context, run *models.JobRun) error
}

// ReminderLock makes sure each reminder goes out once even if a job is re-run
type ReminderLock interface {
	// Acquire returns false when the key is already held
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees the key so a later run can try again
	Release(ctx context.Context, key string) error
}

// Scheduler runs the periodic jobs of the task service
type Scheduler struct {
	cron       *cron.Cron
	logger     *zap.Logger
	unlocks    UnlockSource
	tokens     TokenCleaner
	notifier   Notifier
	jobRuns    JobRunRepository
	lock       ReminderLock
	appBaseURL string
	now        func() time.Time
}

// SchedulerConfig holds the job schedules in standard cron syntax
type SchedulerConfig struct {
	DripReminderSpec string
	TokenCleanupSpec string
	AppBaseURL       string
}

// NewScheduler creates a scheduler and registers its jobs; an invalid cron spec is an error
func NewScheduler(
	cfg SchedulerConfig,
	logger *zap.Logger,
	unlocks UnlockSource,
	tokens TokenCleaner,
	notifier Notifier,
	jobRuns JobRunRepository,
	lock ReminderLock,
) (*Scheduler, error) {
	cl := cronLogger{logger: logger.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:     logger,
		unlocks:    unlocks,
		tokens:     tokens,
		notifier:   notifier,
		jobRuns:    jobRuns,
		lock:       lock,
		appBaseURL: strings.TrimRight(cfg.AppBaseURL, "/"),
		now:        time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.DripReminderSpec, func() { s.runJob(JobDripReminders, s.sendDripReminders) }); err != nil {
		return nil, fmt.Errorf("invalid drip reminder schedule %q: %w", cfg.DripReminderSpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.TokenCleanupSpec, func() { s.runJob(JobTokenCleanup, s.tokens.CleanExpiredTokens) }); err != nil {
		return nil, fmt.Errorf("invalid token cleanup schedule %q: %w", cfg.TokenCleanupSpec, err)
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for running jobs, at most until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stopped with jobs still running")
		return
	}
	s.logger.Info("Scheduler stopped")
}

// runJob executes fn and records the outcome in job_runs
func (s *Scheduler) runJob(name string, fn func(ctx context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	run := &models.JobRun{
		Job:       name,
		Status:    models.JobRunStatusCompleted,
		StartedAt: s.now().UTC(),
	}

	processed, err := fn(ctx)
	run.Processed = processed
	run.FinishedAt = s.now().UTC()
	if err != nil {
		run.Status = models.JobRunStatusFailed
		run.Error = err.Error()
		s.logger.Error("job failed", zap.String("job", name), zap.Int("processed", processed), zap.Error(err))
	} else {
		s.logger.Info("job completed", zap.String("job", name), zap.Int("processed", processed))
	}

	if err := s.jobRuns.Create(ctx, run); err != nil {
		s.logger.Error("failed to record job run", zap.String("job", name), zap.Error(err))
	}
}

// sendDripReminders e-mails every student whose next day opens today (UTC).
// Reminders already sent for the same day are skipped.
func (s *Scheduler) sendDripReminders(ctx context.Context) (int, error) {
	today := s.now().UTC()
	unlocks, err := s.unlocks.UnlockedOn(ctx, today)
	if err != nil {
		return 0, err
	}

	var sent atomic.Int64
	var g errgroup.Group
	g.SetLimit(reminderConcurrency)

	for _, u := range unlocks {
		u := u // per-iteration copy; module targets go 1.21 loop semantics
		g.Go(func() error {
			key := reminderKey(today, u)
			acquired, err := s.lock.Acquire(ctx, key, reminderLockTTL)
			if err != nil {
				return fmt.Errorf("failed to lock reminder %s: %w", key, err)
			}
			if !acquired {
				return nil
			}

			userID := u.UserID
			_, err = s.notifier.Send(ctx, &models.SendEmailRequest{
				TemplateSlug: templateDayUnlocked,
				Recipient:    u.Email,
				Params:       []string{u.Name, strconv.Itoa(u.DayNumber), fmt.Sprintf("%s/day-%d", s.appBaseURL, u.DayNumber)},
				UserID:       &userID,
			})
			if err != nil {
				if relErr := s.lock.Release(ctx, key); relErr != nil {
					s.logger.Warn("failed to release reminder lock", zap.String("key", key), zap.Error(relErr))
				}
				return fmt.Errorf("failed to queue reminder for user %d: %w", u.UserID, err)
			}
			sent.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(sent.Load()), err
}

func reminderKey(date time.Time, u models.DripUnlock) string {
	return fmt.Sprintf("drip:reminder:%s:%d:%d", date.Format(time.DateOnly), u.UserID, u.DayNumber)
}

// redisLock implements ReminderLock with SETNX keys
type redisLock struct {
	rdb *redis.Client
}

func newRedisLock(rdb *redis.Client) *redisLock {
	return &redisLock{rdb: rdb}
}

func (l *redisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, 1, ttl).Result()
}

func (l *redisLock) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
