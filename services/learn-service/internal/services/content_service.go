package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/content"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"go.uber.org/zap"
)

// CourseContentReader is the read side of the canonical content store
type CourseContentReader interface {
	GetLatestByDay(ctx context.Context, day int, publishedOnly bool) (*models.CourseContent, error)
	ListTitles(ctx context.Context, publishedOnly bool) (map[int]string, error)
}

// LegacyContentRepository reads the pre-canonical lesson tables
type LegacyContentRepository interface {
	GetDaySections(ctx context.Context, day int) ([]models.LegacyDaySection, error)
	GetLessonBlocks(ctx context.Context, day int) ([]models.LegacyLessonBlock, error)
}

// LessonCompletionRepository is the interface for day completion data access
type LessonCompletionRepository interface {
	Exists(ctx context.Context, userID, day int) (bool, error)
	Create(ctx context.Context, userID, day int, completedAt time.Time) error
	Delete(ctx context.Context, userID, day int) error
	ListDays(ctx context.Context, userID int) ([]int, error)
}

// EnrollmentRepository is the interface for enrollment data access
type EnrollmentRepository interface {
	Get(ctx context.Context, userID int) (*models.Enrollment, error)
	Upsert(ctx context.Context, e *models.Enrollment) error
	ListUnlockingOn(ctx context.Context, date time.Time, days int) ([]models.DripUnlock, error)
}

// ContentCache caches the published student view of a day
type ContentCache interface {
	Get(ctx context.Context, day int) (*models.DayContentResponse, bool)
	Set(ctx context.Context, day int, resp *models.DayContentResponse)
	Invalidate(ctx context.Context, day int)
}

// Viewer identifies who is reading course content
type Viewer struct {
	UserID  int
	IsAdmin bool
}

type contentService struct {
	contentRepo    CourseContentReader
	legacyRepo     LegacyContentRepository
	completionRepo LessonCompletionRepository
	enrollmentRepo EnrollmentRepository
	cache          ContentCache
	days           int
	logger         *zap.Logger
	now            func() time.Time
}

// NewContentService creates a new content service.
// A nil cache disables caching.
func NewContentService(
	contentRepo CourseContentReader,
	legacyRepo LegacyContentRepository,
	completionRepo LessonCompletionRepository,
	enrollmentRepo EnrollmentRepository,
	cache ContentCache,
	days int,
	logger *zap.Logger,
) *contentService {
	if cache == nil {
		cache = noopCache{}
	}
	return &contentService{
		contentRepo:    contentRepo,
		legacyRepo:     legacyRepo,
		completionRepo: completionRepo,
		enrollmentRepo: enrollmentRepo,
		cache:          cache,
		days:           days,
		logger:         logger,
		now:            time.Now,
	}
}

// GetDay returns the canonical content of a day for a viewer.
// Students only see published content and only once the day has unlocked;
// when no canonical row exists they get the legacy tables' content.
// Admins see drafts and get an empty creatable structure instead of legacy content.
// Store failures are logged and reported through Status rather than as an error.
func (s *contentService) GetDay(ctx context.Context, day int, viewer Viewer) (*models.DayContentResponse, error) {
	if err := validateDay(day, s.days); err != nil {
		return nil, err
	}

	if viewer.IsAdmin {
		return s.loadForAdmin(ctx, day), nil
	}

	enrollment, err := s.ensureEnrollment(ctx, viewer.UserID)
	if err != nil {
		s.logger.Error("failed to load enrollment", zap.Int("userID", viewer.UserID), zap.Error(err))
		return errorState(day), nil
	}
	if day > unlockedThrough(enrollment.EnrolledAt, s.now(), s.days) {
		return nil, fmt.Errorf("day %d: %w", day, models.ErrDayLocked)
	}

	resp := s.loadPublished(ctx, day)
	if resp.Status != models.ContentStatusError {
		completed, err := s.completionRepo.Exists(ctx, viewer.UserID, day)
		if err != nil {
			s.logger.Warn("failed to check day completion", zap.Int("day", day), zap.Error(err))
		}
		resp.Completed = completed
	}
	return resp, nil
}

func (s *contentService) loadForAdmin(ctx context.Context, day int) *models.DayContentResponse {
	row, err := s.contentRepo.GetLatestByDay(ctx, day, false)
	if errors.Is(err, models.ErrNotFound) {
		resp := emptyState(day)
		resp.Creatable = true
		return resp
	}
	if err != nil {
		s.logger.Error("failed to load day content", zap.Int("day", day), zap.Error(err))
		return errorState(day)
	}
	return dayResponseFromRow(row)
}

// loadPublished returns a copy of the student view, served from cache when possible
func (s *contentService) loadPublished(ctx context.Context, day int) *models.DayContentResponse {
	if cached, ok := s.cache.Get(ctx, day); ok {
		resp := *cached
		return &resp
	}

	var resp *models.DayContentResponse
	row, err := s.contentRepo.GetLatestByDay(ctx, day, true)
	switch {
	case err == nil:
		resp = dayResponseFromRow(row)
	case errors.Is(err, models.ErrNotFound):
		resp = s.loadLegacy(ctx, day)
	default:
		s.logger.Error("failed to load day content", zap.Int("day", day), zap.Error(err))
		return errorState(day)
	}

	if resp.Status != models.ContentStatusError {
		s.cache.Set(ctx, day, resp)
	}
	copied := *resp
	return &copied
}

func (s *contentService) loadLegacy(ctx context.Context, day int) *models.DayContentResponse {
	blocks, err := s.legacyRepo.GetLessonBlocks(ctx, day)
	if err != nil {
		s.logger.Error("failed to load legacy lesson blocks", zap.Int("day", day), zap.Error(err))
		return errorState(day)
	}
	var sections []models.LegacyDaySection
	if len(blocks) == 0 {
		sections, err = s.legacyRepo.GetDaySections(ctx, day)
		if err != nil {
			s.logger.Error("failed to load legacy day sections", zap.Int("day", day), zap.Error(err))
			return errorState(day)
		}
	}

	c := LegacyToContent(day, sections, blocks)
	if len(c.Sections) == 0 {
		return emptyState(day)
	}
	resp := emptyState(day)
	resp.Content = c
	resp.Rendered = content.Render(c)
	resp.IsPublished = true
	resp.Source = models.ContentSourceLegacy
	resp.Status = models.ContentStatusOK
	return resp
}

// ListDays returns every course day with its unlock and completion state
func (s *contentService) ListDays(ctx context.Context, viewer Viewer) ([]models.DaySummary, error) {
	titles, err := s.contentRepo.ListTitles(ctx, !viewer.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list day titles: %w", err)
	}

	enrolledAt := s.now()
	completed := map[int]bool{}
	if !viewer.IsAdmin {
		enrollment, err := s.ensureEnrollment(ctx, viewer.UserID)
		if err != nil {
			return nil, err
		}
		enrolledAt = enrollment.EnrolledAt

		days, err := s.completionRepo.ListDays(ctx, viewer.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list completed days: %w", err)
		}
		for _, d := range days {
			completed[d] = true
		}
	}

	through := unlockedThrough(enrolledAt, s.now(), s.days)
	summaries := make([]models.DaySummary, 0, s.days)
	for day := 1; day <= s.days; day++ {
		title, ok := titles[day]
		if !ok {
			title = fmt.Sprintf("Day %d", day)
		}
		summaries = append(summaries, models.DaySummary{
			DayNumber: day,
			Title:     title,
			Unlocked:  viewer.IsAdmin || day <= through,
			Completed: completed[day],
			UnlocksAt: unlocksAt(enrolledAt, day),
		})
	}
	return summaries, nil
}

// ToggleDayCompletion marks an unlocked day completed, or clears the mark when already set
func (s *contentService) ToggleDayCompletion(ctx context.Context, userID, day int) (*models.ToggleCompletionResponse, error) {
	return s.updateDayCompletion(ctx, userID, day, func(completed bool) bool { return !completed })
}

// SetDayCompletion sets the completion mark of an unlocked day. Setting the
// current state again changes nothing.
func (s *contentService) SetDayCompletion(ctx context.Context, userID, day int, completed bool) (*models.ToggleCompletionResponse, error) {
	return s.updateDayCompletion(ctx, userID, day, func(bool) bool { return completed })
}

// updateDayCompletion moves the completion mark of a day to the state next returns for the current one
func (s *contentService) updateDayCompletion(ctx context.Context, userID, day int, next func(completed bool) bool) (*models.ToggleCompletionResponse, error) {
	if err := validateDay(day, s.days); err != nil {
		return nil, err
	}
	enrollment, err := s.ensureEnrollment(ctx, userID)
	if err != nil {
		return nil, err
	}
	if day > unlockedThrough(enrollment.EnrolledAt, s.now(), s.days) {
		return nil, fmt.Errorf("day %d: %w", day, models.ErrDayLocked)
	}

	exists, err := s.completionRepo.Exists(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to check completion: %w", err)
	}
	want := next(exists)
	switch {
	case want == exists:
	case want:
		if err := s.completionRepo.Create(ctx, userID, day, s.now()); err != nil {
			return nil, fmt.Errorf("failed to create completion: %w", err)
		}
	default:
		if err := s.completionRepo.Delete(ctx, userID, day); err != nil {
			return nil, fmt.Errorf("failed to delete completion: %w", err)
		}
	}
	return &models.ToggleCompletionResponse{DayNumber: day, Completed: want}, nil
}

// ensureEnrollment returns the enrollment of a user, starting one now when absent
func (s *contentService) ensureEnrollment(ctx context.Context, userID int) (*models.Enrollment, error) {
	e, err := s.enrollmentRepo.Get(ctx, userID)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	e = &models.Enrollment{UserID: userID, EnrolledAt: s.now()}
	if err := s.enrollmentRepo.Upsert(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return e, nil
}

func validateDay(day, days int) error {
	if day < 1 || day > days {
		return fmt.Errorf("%w: must be between 1 and %d", models.ErrInvalidDay, days)
	}
	return nil
}

func dayResponseFromRow(row *models.CourseContent) *models.DayContentResponse {
	c := content.Normalize(row.Content, row.Title)
	updatedAt := row.UpdatedAt
	resp := &models.DayContentResponse{
		ContentID:   row.ID,
		DayNumber:   row.DayNumber,
		Title:       row.Title,
		Description: row.Description,
		Content:     c,
		Rendered:    content.Render(c),
		VideoURL:    row.VideoURL,
		IsPublished: row.IsPublished,
		UpdatedAt:   &updatedAt,
		Source:      models.ContentSourceCourseContent,
		Status:      models.ContentStatusOK,
	}
	if len(c.Sections) == 0 {
		resp.Status = models.ContentStatusEmpty
	}
	return resp
}

func emptyState(day int) *models.DayContentResponse {
	return &models.DayContentResponse{
		DayNumber: day,
		Content:   content.Empty(),
		Source:    models.ContentSourceNone,
		Status:    models.ContentStatusEmpty,
	}
}

func errorState(day int) *models.DayContentResponse {
	resp := emptyState(day)
	resp.Status = models.ContentStatusError
	return resp
}

type noopCache struct{}

func (noopCache) Get(context.Context, int) (*models.DayContentResponse, bool) { return nil, false }
func (noopCache) Set(context.Context, int, *models.DayContentResponse) {}
func (noopCache) Invalidate(context.Context, int) {}
