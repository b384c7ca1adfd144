package services

import (
	"context"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

// mockCourseContentRepository is a mock implementation of CourseContentRepository
type mockCourseContentRepository struct {
	row         *models.CourseContent
	items       []models.CourseContentListItem
	titles      map[int]string
	err         error
	getErr      error
	saveErr     error
	version     int
	getCalls    int
	saveCalls   int
	deleteCalls int
	saved       *models.CourseContent
}

func (m *mockCourseContentRepository) GetByID(ctx context.Context, id int) (*models.CourseContent, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.row == nil {
		return nil, models.ErrNotFound
	}
	return m.row, nil
}

func (m *mockCourseContentRepository) GetLatestByDay(ctx context.Context, day int, publishedOnly bool) (*models.CourseContent, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.row == nil || (publishedOnly && !m.row.IsPublished) {
		return nil, models.ErrNotFound
	}
	return m.row, nil
}

func (m *mockCourseContentRepository) List(ctx context.Context) ([]models.CourseContentListItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockCourseContentRepository) ListTitles(ctx context.Context, publishedOnly bool) (map[int]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.titles == nil {
		return map[int]string{}, nil
	}
	return m.titles, nil
}

func (m *mockCourseContentRepository) CreateWithVersion(ctx context.Context, c *models.CourseContent, changeNote string) (int, error) {
	m.saveCalls++
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	c.ID = 1
	m.version = 1
	m.saved = c
	return m.version, nil
}

func (m *mockCourseContentRepository) SaveWithVersion(ctx context.Context, c *models.CourseContent, changeNote string) (int, error) {
	m.saveCalls++
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.version++
	m.saved = c
	return m.version, nil
}

func (m *mockCourseContentRepository) Delete(ctx context.Context, id int) error {
	m.deleteCalls++
	return m.err
}

// mockContentVersionRepository is a mock implementation of ContentVersionRepository
type mockContentVersionRepository struct {
	versions []models.ContentVersion
	max      int
	err      error
}

func (m *mockContentVersionRepository) ListByContentID(ctx context.Context, contentID int) ([]models.ContentVersion, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.versions, nil
}

func (m *mockContentVersionRepository) GetByNumber(ctx context.Context, contentID, versionNumber int) (*models.ContentVersion, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.versions {
		if m.versions[i].VersionNumber == versionNumber {
			return &m.versions[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockContentVersionRepository) MaxVersionNumber(ctx context.Context, contentID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.max, nil
}

// mockLegacyContentRepository is a mock implementation of LegacyContentRepository
type mockLegacyContentRepository struct {
	sections []models.LegacyDaySection
	blocks   []models.LegacyLessonBlock
	days     []int
	err      error
}

func (m *mockLegacyContentRepository) GetDaySections(ctx context.Context, day int) ([]models.LegacyDaySection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sections, nil
}

func (m *mockLegacyContentRepository) ListDays(ctx context.Context) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.days, nil
}

func (m *mockLegacyContentRepository) GetLessonBlocks(ctx context.Context, day int) ([]models.LegacyLessonBlock, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.blocks, nil
}

// mockLessonCompletionRepository is a mock implementation of LessonCompletionRepository
type mockLessonCompletionRepository struct {
	days      map[int]bool
	err       error
	existsErr error
	writes    int
}

func (m *mockLessonCompletionRepository) Exists(ctx context.Context, userID, day int) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.days[day], nil
}

func (m *mockLessonCompletionRepository) Create(ctx context.Context, userID, day int, completedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	if m.days == nil {
		m.days = map[int]bool{}
	}
	m.days[day] = true
	m.writes++
	return nil
}

func (m *mockLessonCompletionRepository) Delete(ctx context.Context, userID, day int) error {
	if m.err != nil {
		return m.err
	}
	delete(m.days, day)
	m.writes++
	return nil
}

func (m *mockLessonCompletionRepository) ListDays(ctx context.Context, userID int) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	days := make([]int, 0, len(m.days))
	for d := range m.days {
		days = append(days, d)
	}
	return days, nil
}

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct {
	enrollment  *models.Enrollment
	unlocks     []models.DripUnlock
	err         error
	upsertErr   error
	upserted    *models.Enrollment
	unlockDate  time.Time
	unlockCalls int
}

func (m *mockEnrollmentRepository) Get(ctx context.Context, userID int) (*models.Enrollment, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.enrollment == nil {
		return nil, models.ErrNotFound
	}
	return m.enrollment, nil
}

func (m *mockEnrollmentRepository) Upsert(ctx context.Context, e *models.Enrollment) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = e
	return nil
}

func (m *mockEnrollmentRepository) ListUnlockingOn(ctx context.Context, date time.Time, days int) ([]models.DripUnlock, error) {
	m.unlockCalls++
	m.unlockDate = date
	if m.err != nil {
		return nil, m.err
	}
	return m.unlocks, nil
}

// mockContentCache is an in-memory ContentCache
type mockContentCache struct {
	entries     map[int]*models.DayContentResponse
	invalidated []int
}

func newMockContentCache() *mockContentCache {
	return &mockContentCache{entries: map[int]*models.DayContentResponse{}}
}

func (m *mockContentCache) Get(ctx context.Context, day int) (*models.DayContentResponse, bool) {
	resp, ok := m.entries[day]
	return resp, ok
}

func (m *mockContentCache) Set(ctx context.Context, day int, resp *models.DayContentResponse) {
	m.entries[day] = resp
}

func (m *mockContentCache) Invalidate(ctx context.Context, day int) {
	delete(m.entries, day)
	m.invalidated = append(m.invalidated, day)
}

// mockVideoProgressRepository is a mock implementation of VideoProgressRepository
type mockVideoProgressRepository struct {
	progress  *models.VideoProgress
	getErr    error
	upsertErr error
	upserted  *models.VideoProgress
}

func (m *mockVideoProgressRepository) Get(ctx context.Context, userID int, videoID string) (*models.VideoProgress, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.progress == nil {
		return nil, models.ErrNotFound
	}
	return m.progress, nil
}

func (m *mockVideoProgressRepository) Upsert(ctx context.Context, p *models.VideoProgress) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = p
	m.progress = p
	return nil
}

// mockVideoBookmarkRepository keeps bookmarks keyed by timestamp
type mockVideoBookmarkRepository struct {
	marks map[int]models.Bookmark
	err   error
}

func (m *mockVideoBookmarkRepository) Toggle(ctx context.Context, b *models.Bookmark) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.marks == nil {
		m.marks = map[int]models.Bookmark{}
	}
	if _, ok := m.marks[b.TimestampSeconds]; ok {
		delete(m.marks, b.TimestampSeconds)
		return false, nil
	}
	b.ID = len(m.marks) + 1
	m.marks[b.TimestampSeconds] = *b
	return true, nil
}

func (m *mockVideoBookmarkRepository) Upsert(ctx context.Context, b *models.Bookmark) error {
	if m.err != nil {
		return m.err
	}
	if m.marks == nil {
		m.marks = map[int]models.Bookmark{}
	}
	if existing, ok := m.marks[b.TimestampSeconds]; ok {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
	} else {
		b.ID = len(m.marks) + 1
	}
	m.marks[b.TimestampSeconds] = *b
	return nil
}

func (m *mockVideoBookmarkRepository) Delete(ctx context.Context, userID int, videoID string, timestampSeconds int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.marks[timestampSeconds]
	delete(m.marks, timestampSeconds)
	return ok, nil
}

func (m *mockVideoBookmarkRepository) ListByVideo(ctx context.Context, userID int, videoID string) ([]models.Bookmark, error) {
	if m.err != nil {
		return nil, m.err
	}
	list := make([]models.Bookmark, 0, len(m.marks))
	for _, b := range m.marks {
		list = append(list, b)
	}
	return list, nil
}

// mockVideoContentRepository is a mock implementation of VideoContentRepository
type mockVideoContentRepository struct {
	videos  []models.VideoContent
	err     error
	created *models.VideoContent
}

func (m *mockVideoContentRepository) List(ctx context.Context, day *int) ([]models.VideoContent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.videos, nil
}

func (m *mockVideoContentRepository) GetByID(ctx context.Context, id string) (*models.VideoContent, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.videos {
		if m.videos[i].ID == id {
			return &m.videos[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockVideoContentRepository) Create(ctx context.Context, v *models.VideoContent) error {
	if m.err != nil {
		return m.err
	}
	m.created = v
	return nil
}

func (m *mockVideoContentRepository) Delete(ctx context.Context, id string) error {
	return m.err
}

// mockCertificateRepository is a mock implementation of CertificateRepository
type mockCertificateRepository struct {
	cert      *models.Certificate
	err       error
	createErr error
	created   *models.Certificate
}

func (m *mockCertificateRepository) GetByUserID(ctx context.Context, userID int) (*models.Certificate, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.cert == nil {
		return nil, models.ErrNotFound
	}
	return m.cert, nil
}

func (m *mockCertificateRepository) GetByCode(ctx context.Context, code string) (*models.Certificate, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.cert == nil || m.cert.Code != code {
		return nil, models.ErrNotFound
	}
	return m.cert, nil
}

func (m *mockCertificateRepository) Create(ctx context.Context, c *models.Certificate) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = c
	return nil
}

// mockReviewRepository is a mock implementation of ReviewRepository
type mockReviewRepository struct {
	review        *models.Review
	reviews       []models.Review
	err           error
	created       *models.Review
	response      *models.InstructorResponse
	lastLimit     int
	lastOffset    int
	lastPublished bool
}

func (m *mockReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	if m.err != nil {
		return m.err
	}
	rv.ID = 1
	m.created = rv
	return nil
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id int) (*models.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.review == nil {
		return nil, models.ErrNotFound
	}
	return m.review, nil
}

func (m *mockReviewRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Review, error) {
	m.lastPublished = publishedOnly
	m.lastLimit = limit
	m.lastOffset = offset
	if m.err != nil {
		return nil, m.err
	}
	return m.reviews, nil
}

func (m *mockReviewRepository) SetPublished(ctx context.Context, id int, published bool) error {
	return m.err
}

func (m *mockReviewRepository) CreateResponse(ctx context.Context, resp *models.InstructorResponse) error {
	if m.err != nil {
		return m.err
	}
	m.response = resp
	return nil
}

// mockActivityLogRepository is a mock implementation of ActivityLogRepository
type mockActivityLogRepository struct {
	logs    []models.ActivityLog
	err     error
	created *models.ActivityLog
}

func (m *mockActivityLogRepository) Create(ctx context.Context, a *models.ActivityLog) error {
	if m.err != nil {
		return m.err
	}
	m.created = a
	return nil
}

func (m *mockActivityLogRepository) List(ctx context.Context, userID *int, limit, offset int) ([]models.ActivityLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.logs, nil
}
