package services

import (
	"context"
	"errors"
	"sync"

	"github.com/aura-academy/portal/services/task-service/internal/models"
	"github.com/hibiken/asynq"
)

type mockNotificationRepository struct {
	mu            sync.Mutex
	notifications map[int]*models.Notification
	nextID        int
	createErr     error
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{notifications: map[int]*models.Notification{}, nextID: 1}
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	n.ID = m.nextID
	n.Status = models.NotificationStatusPending
	m.nextID++
	stored := *n
	m.notifications[n.ID] = &stored
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *mockNotificationRepository) GetAll(ctx context.Context, page, count int, filter models.NotificationFilter) ([]models.NotificationListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.NotificationListItem{}
	for _, n := range m.notifications {
		if filter.Status != "" && n.Status != filter.Status {
			continue
		}
		items = append(items, models.NotificationListItem{ID: n.ID, TemplateID: n.TemplateID, Recipient: n.Recipient, Status: n.Status})
	}
	return items, nil
}

func (m *mockNotificationRepository) MarkFailed(ctx context.Context, id int, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return models.ErrNotFound
	}
	n.Status = models.NotificationStatusFailed
	n.Error = errorMsg
	return nil
}

func (m *mockNotificationRepository) ResetToPending(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return models.ErrNotFound
	}
	if n.Status != models.NotificationStatusFailed {
		return models.ErrValidation
	}
	n.Status = models.NotificationStatusPending
	n.Error = ""
	return nil
}

type mockTemplateLookup map[string]int

func (m mockTemplateLookup) GetIDBySlug(ctx context.Context, slug string) (int, error) {
	id, ok := m[slug]
	if !ok {
		return 0, models.ErrNotFound
	}
	return id, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "task", Queue: QueueNotifications}, nil
}

type mockEmailTemplateRepository struct {
	templates map[int]*models.EmailTemplate
	nextID    int
}

func newMockEmailTemplateRepository(templates ...*models.EmailTemplate) *mockEmailTemplateRepository {
	m := &mockEmailTemplateRepository{templates: map[int]*models.EmailTemplate{}, nextID: 1}
	for _, tpl := range templates {
		m.templates[tpl.ID] = tpl
		if tpl.ID >= m.nextID {
			m.nextID = tpl.ID + 1
		}
	}
	return m
}

func (m *mockEmailTemplateRepository) Create(ctx context.Context, template *models.EmailTemplate) error {
	for _, existing := range m.templates {
		if existing.Slug == template.Slug {
			return models.ErrSlugTaken
		}
	}
	template.ID = m.nextID
	m.nextID++
	m.templates[template.ID] = template
	return nil
}

func (m *mockEmailTemplateRepository) GetByID(ctx context.Context, id int) (*models.EmailTemplate, error) {
	tpl, ok := m.templates[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return tpl, nil
}

func (m *mockEmailTemplateRepository) GetAll(ctx context.Context, page, count int, search string) ([]models.EmailTemplateListItem, error) {
	items := []models.EmailTemplateListItem{}
	for _, tpl := range m.templates {
		items = append(items, models.EmailTemplateListItem{ID: tpl.ID, Slug: tpl.Slug})
	}
	return items, nil
}

func (m *mockEmailTemplateRepository) Update(ctx context.Context, id int, template *models.EmailTemplate) error {
	tpl, ok := m.templates[id]
	if !ok {
		return models.ErrNotFound
	}
	if template.Slug != "" {
		tpl.Slug = template.Slug
	}
	if template.SubjectTemplate != "" {
		tpl.SubjectTemplate = template.SubjectTemplate
	}
	if template.BodyTemplate != "" {
		tpl.BodyTemplate = template.BodyTemplate
	}
	return nil
}

func (m *mockEmailTemplateRepository) Delete(ctx context.Context, id int) error {
	if _, ok := m.templates[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

type mockJobRunRepository struct {
	lastJob string
	runs    []models.JobRun
}

func (m *mockJobRunRepository) GetAll(ctx context.Context, page, count int, job string) ([]models.JobRun, error) {
	m.lastJob = job
	return m.runs, nil
}

var errQueueDown = errors.New("redis: connection refused")
