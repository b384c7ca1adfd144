package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/content"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"go.uber.org/zap"
)

// CourseContentRepository is the interface for canonical content data access
type CourseContentRepository interface {
	GetByID(ctx context.Context, id int) (*models.CourseContent, error)
	GetLatestByDay(ctx context.Context, day int, publishedOnly bool) (*models.CourseContent, error)
	List(ctx context.Context) ([]models.CourseContentListItem, error)
	CreateWithVersion(ctx context.Context, c *models.CourseContent, changeNote string) (int, error)
	SaveWithVersion(ctx context.Context, c *models.CourseContent, changeNote string) (int, error)
	Delete(ctx context.Context, id int) error
}

// ContentVersionRepository is the interface for content version data access
type ContentVersionRepository interface {
	ListByContentID(ctx context.Context, contentID int) ([]models.ContentVersion, error)
	GetByNumber(ctx context.Context, contentID, versionNumber int) (*models.ContentVersion, error)
	MaxVersionNumber(ctx context.Context, contentID int) (int, error)
}

type adminContentService struct {
	contentRepo CourseContentRepository
	versionRepo ContentVersionRepository
	cache       ContentCache
	days        int
	logger      *zap.Logger
	now         func() time.Time
}

// NewAdminContentService creates a new admin content service.
// A nil cache disables cache invalidation.
func NewAdminContentService(
	contentRepo CourseContentRepository,
	versionRepo ContentVersionRepository,
	cache ContentCache,
	days int,
	logger *zap.Logger,
) *adminContentService {
	if cache == nil {
		cache = noopCache{}
	}
	return &adminContentService{
		contentRepo: contentRepo,
		versionRepo: versionRepo,
		cache:       cache,
		days:        days,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns every content row
func (s *adminContentService) List(ctx context.Context) ([]models.CourseContentListItem, error) {
	return s.contentRepo.List(ctx)
}

// Get returns a content row in canonical form
func (s *adminContentService) Get(ctx context.Context, id int) (*models.DayContentResponse, error) {
	row, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dayResponseFromRow(row), nil
}

// GetDay returns the authoritative row of a day for the editor, or an empty creatable structure
func (s *adminContentService) GetDay(ctx context.Context, day int) (*models.DayContentResponse, error) {
	if err := validateDay(day, s.days); err != nil {
		return nil, err
	}
	row, err := s.contentRepo.GetLatestByDay(ctx, day, false)
	if errors.Is(err, models.ErrNotFound) {
		resp := emptyState(day)
		resp.Creatable = true
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return dayResponseFromRow(row), nil
}

// Create stores new content for a day as version 1
func (s *adminContentService) Create(ctx context.Context, userID int, req *models.SaveContentRequest) (*models.SaveContentResponse, error) {
	row, err := s.prepare(userID, req.DayNumber, req.Title, req.Description, req.IsPublished, content.Normalize(req.Content, req.Title))
	if err != nil {
		return nil, err
	}

	version, err := s.contentRepo.CreateWithVersion(ctx, row, changeNoteOr(req.ChangeNote, "created"))
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, row.DayNumber)

	s.logger.Info("content created", zap.Int("contentID", row.ID), zap.Int("day", row.DayNumber), zap.Int("userID", userID))
	return &models.SaveContentResponse{VersionNumber: version, Content: *dayResponseFromRow(row)}, nil
}

// Save overwrites the whole structure of a content row and records a new version
func (s *adminContentService) Save(ctx context.Context, id, userID int, req *models.SaveContentRequest) (*models.SaveContentResponse, error) {
	existing, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, existing, userID, req.DayNumber, req.Title, req.Description, req.IsPublished,
		content.Normalize(req.Content, req.Title), changeNoteOr(req.ChangeNote, "saved"))
}

// ApplyOperations runs a batch of editor operations against the stored structure and saves the result
func (s *adminContentService) ApplyOperations(ctx context.Context, id, userID int, req *models.ApplyOperationsRequest) (*models.SaveContentResponse, error) {
	existing, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	editor := content.NewEditor(content.Normalize(existing.Content, existing.Title))
	for i, op := range req.Operations {
		if _, err := editor.Apply(op); err != nil {
			return nil, fmt.Errorf("%w: operation %d: %v", models.ErrValidation, i+1, err)
		}
	}

	return s.save(ctx, existing, userID, existing.DayNumber, existing.Title, existing.Description, existing.IsPublished,
		editor.Content(), changeNoteOr(req.ChangeNote, fmt.Sprintf("%d editor operations", len(req.Operations))))
}

func (s *adminContentService) save(
	ctx context.Context,
	existing *models.CourseContent,
	userID, day int,
	title, description string,
	published bool,
	c content.Content,
	changeNote string,
) (*models.SaveContentResponse, error) {
	row, err := s.prepare(userID, day, title, description, published, c)
	if err != nil {
		return nil, err
	}
	row.ID = existing.ID

	version, err := s.contentRepo.SaveWithVersion(ctx, row, changeNote)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, row.DayNumber)
	if existing.DayNumber != row.DayNumber {
		s.cache.Invalidate(ctx, existing.DayNumber)
	}

	s.logger.Info("content saved",
		zap.Int("contentID", row.ID),
		zap.Int("day", row.DayNumber),
		zap.Int("version", version),
		zap.Int("userID", userID),
	)
	return &models.SaveContentResponse{VersionNumber: version, Content: *dayResponseFromRow(row)}, nil
}

// prepare validates and serialises content for a write.
// Sections are renumbered and the first block url becomes the row video url.
func (s *adminContentService) prepare(userID, day int, title, description string, published bool, c content.Content) (*models.CourseContent, error) {
	if err := validateDay(day, s.days); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}

	c.Renumber()
	if published {
		if err := content.ValidateForPublish(c); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrNotPublishable, err)
		}
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content: %w", err)
	}

	row := &models.CourseContent{
		DayNumber:   day,
		Title:       title,
		Description: description,
		Content:     raw,
		IsPublished: published,
		UpdatedAt:   s.now().UTC(),
	}
	if userID > 0 {
		row.UpdatedBy = &userID
	}
	if url, ok := c.FirstURL(); ok {
		row.VideoURL = &url
	}
	return row, nil
}

// Delete removes a content row and its versions
func (s *adminContentService) Delete(ctx context.Context, id int) error {
	existing, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.contentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, existing.DayNumber)
	return nil
}

// ListVersions returns the versions of a content row newest first, each with a short preview
func (s *adminContentService) ListVersions(ctx context.Context, contentID int) ([]models.ContentVersionListItem, error) {
	if _, err := s.contentRepo.GetByID(ctx, contentID); err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListByContentID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	items := make([]models.ContentVersionListItem, 0, len(versions))
	for _, v := range versions {
		items = append(items, models.ContentVersionListItem{
			ID:            v.ID,
			VersionNumber: v.VersionNumber,
			Title:         v.Title,
			ChangeNote:    v.ChangeNote,
			ChangedBy:     v.ChangedBy,
			CreatedAt:     v.CreatedAt,
			Preview:       content.Preview(content.Normalize(v.Content, v.Title), v.Description, content.PreviewLength),
		})
	}
	return items, nil
}

// RestoreVersion returns the content of a version for the editor.
// Nothing is written; saving the result creates a new version.
func (s *adminContentService) RestoreVersion(ctx context.Context, contentID, versionNumber int) (*models.RestoredVersion, error) {
	v, err := s.versionRepo.GetByNumber(ctx, contentID, versionNumber)
	if err != nil {
		return nil, err
	}
	latest, err := s.versionRepo.MaxVersionNumber(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return &models.RestoredVersion{
		ContentID:           contentID,
		VersionNumber:       v.VersionNumber,
		LatestVersionNumber: latest,
		Title:               v.Title,
		Description:         v.Description,
		Content:             content.Normalize(v.Content, v.Title),
	}, nil
}

func changeNoteOr(note, fallback string) string {
	if strings.TrimSpace(note) == "" {
		return fallback
	}
	return note
}
