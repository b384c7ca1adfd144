// Package clients calls sibling services over their API-key protected routes
package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/go-resty/resty/v2"
)

// newServiceClient creates a resty client that authenticates with the shared API key
// and retries transport failures and 5xx answers
func newServiceClient(baseURL, apiKey string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader(middleware.APIKeyHeader, apiKey).
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
}

func checkResponse(service string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("failed to call %s service: %w", service, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s service returned %d: %s", service, resp.StatusCode(), resp.String())
	}
	return nil
}

// LearnClient calls the learn service
type LearnClient struct {
	http *resty.Client
}

// NewLearnClient creates a learn service client
func NewLearnClient(baseURL, apiKey string) *LearnClient {
	return &LearnClient{http: newServiceClient(baseURL, apiKey)}
}

// Enroll starts the drip schedule of a new student
func (c *LearnClient) Enroll(ctx context.Context, userID int, email, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"userId": userID,
			"email":  email,
			"name":   name,
		}).
		Post("/api/v1/internal/enrollments")
	return checkResponse("learn", resp, err)
}

// TaskClient calls the task service
type TaskClient struct {
	http *resty.Client
}

// NewTaskClient creates a task service client
func NewTaskClient(baseURL, apiKey string) *TaskClient {
	return &TaskClient{http: newServiceClient(baseURL, apiKey)}
}

// SendEmail queues a templated e-mail; params fill the {{1}}, {{2}}, ... placeholders in order
func (c *TaskClient) SendEmail(ctx context.Context, templateSlug, recipient string, params ...string) error {
	if params == nil {
		params = []string{}
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"templateSlug": templateSlug,
			"recipient":    recipient,
			"params":       params,
		}).
		Post("/api/v1/notifications/email")
	return checkResponse("task", resp, err)
}
