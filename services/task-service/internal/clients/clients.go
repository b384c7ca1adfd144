// Package clients calls the learn and auth services for the scheduler jobs
package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/services/task-service/internal/models"
	"github.com/go-resty/resty/v2"
)

func newServiceClient(baseURL, apiKey string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader(middleware.APIKeyHeader, apiKey).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
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

// LearnClient reads drip schedules from the learn service
type LearnClient struct {
	http *resty.Client
}

// NewLearnClient creates a learn service client
func NewLearnClient(baseURL, apiKey string) *LearnClient {
	return &LearnClient{http: newServiceClient(baseURL, apiKey)}
}

// UnlockedOn lists students whose next day opens on the given UTC calendar date
func (c *LearnClient) UnlockedOn(ctx context.Context, date time.Time) ([]models.DripUnlock, error) {
	var unlocks []models.DripUnlock
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", date.UTC().Format(time.DateOnly)).
		SetResult(&unlocks).
		Get("/api/v1/internal/drip/unlocked")
	if err := checkResponse("learn", resp, err); err != nil {
		return nil, err
	}
	return unlocks, nil
}

// AuthClient triggers maintenance on the auth service
type AuthClient struct {
	http *resty.Client
}

// NewAuthClient creates an auth service client
func NewAuthClient(baseURL, apiKey string) *AuthClient {
	return &AuthClient{http: newServiceClient(baseURL, apiKey)}
}

type cleanTokensResponse struct {
	Deleted int `json:"deleted"`
}

// CleanExpiredTokens removes expired refresh tokens and returns how many were deleted
func (c *AuthClient) CleanExpiredTokens(ctx context.Context) (int, error) {
	var result cleanTokensResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/api/v1/internal/tokens/clean")
	if err := checkResponse("auth", resp, err); err != nil {
		return 0, err
	}
	return result.Deleted, nil
}
