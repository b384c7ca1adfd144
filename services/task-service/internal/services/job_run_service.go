package services

import (
	"context"
	"strings"

	"github.com/aura-academy/portal/services/task-service/internal/models"
)

// JobRunRepository is the interface for scheduler job run history
type JobRunRepository interface {
	GetAll(ctx context.Context, page, count int, job string) ([]models.JobRun, error)
}

type jobRunService struct {
	repo JobRunRepository
}

// NewJobRunService creates a new job run service
func NewJobRunService(repo JobRunRepository) *jobRunService {
	return &jobRunService{repo: repo}
}

// GetAll lists scheduler job runs, newest first
func (s *jobRunService) GetAll(ctx context.Context, page, count int, job string) ([]models.JobRun, error) {
	return s.repo.GetAll(ctx, page, count, strings.TrimSpace(job))
}
