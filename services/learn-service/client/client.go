// Package client is the Go SDK for the learn service API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoSession is returned when no session token is available
var ErrNoSession = errors.New("no session token")

// TokenSource returns the current access token, or "" when signed out
type TokenSource func() string

// APIError is a non-2xx answer of the learn service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("learn api: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type errorBody struct {
	Error string `json:"error"`
}

// Client calls the learn service on behalf of a signed-in student
type Client struct {
	http   *resty.Client
	tokens TokenSource
}

// New creates a client for the API rooted at baseURL, e.g. https://host/api/v1
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(200 * time.Millisecond).
			AddRetryCondition(retryable).
			SetHeader("Accept", "application/json"),
		tokens: tokens,
	}
}

// retryable retries failed GET, PUT and DELETE calls only. A POST may have
// been applied before its response was lost, so it is never sent twice.
func retryable(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil {
		return false
	}
	switch r.Request.Method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	default:
		return false
	}
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token := ""
	if c.tokens != nil {
		token = c.tokens()
	}
	if token == "" {
		return nil, ErrNoSession
	}
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&errorBody{}), nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("learn api request failed: %w", err)
	}
	if resp.IsError() {
		msg := http.StatusText(resp.StatusCode())
		if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
			msg = body.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return nil
}

// GetDay fetches the canonical content of a day
func (c *Client) GetDay(ctx context.Context, day int) (*DayContent, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out DayContent
	resp, err := req.
		SetPathParam("day", strconv.Itoa(day)).
		SetResult(&out).
		Get("/days/{day}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDays fetches every day with its unlock and completion flags
func (c *Client) ListDays(ctx context.Context) ([]DaySummary, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out []DaySummary
	resp, err := req.SetResult(&out).Get("/days")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleCompletion toggles the completion mark of a day
func (c *Client) ToggleCompletion(ctx context.Context, day int) (*CompletionState, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out CompletionState
	resp, err := req.
		SetPathParam("day", strconv.Itoa(day)).
		SetResult(&out).
		Post("/days/{day}/complete")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCompletion sets the completion mark of a day to the given state
func (c *Client) SetCompletion(ctx context.Context, day int, completed bool) (*CompletionState, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out CompletionState
	resp, err := req.
		SetPathParam("day", strconv.Itoa(day)).
		SetBody(map[string]bool{"completed": completed}).
		SetResult(&out).
		Put("/days/{day}/completion")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveProgress stores the playback position of a video
func (c *Client) SaveProgress(ctx context.Context, videoID string, update ProgressUpdate) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.
		SetPathParam("videoId", videoID).
		SetBody(update).
		Put("/videos/{videoId}/progress")
	return checkResponse(resp, err)
}

// GetProgress fetches the stored position of a video, 0 when none is stored
func (c *Client) GetProgress(ctx context.Context, videoID string) (*VideoProgress, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out VideoProgress
	resp, err := req.
		SetPathParam("videoId", videoID).
		SetResult(&out).
		Get("/videos/{videoId}/progress")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleBookmark adds or removes the bookmark at a playback position
func (c *Client) ToggleBookmark(ctx context.Context, videoID string, timestamp float64, note string) (*BookmarkToggle, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out BookmarkToggle
	resp, err := req.
		SetPathParam("videoId", videoID).
		SetBody(map[string]any{"timestamp": timestamp, "note": note}).
		SetResult(&out).
		Post("/videos/{videoId}/bookmarks/toggle")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutBookmark creates the bookmark at a playback position, or updates its note
func (c *Client) PutBookmark(ctx context.Context, videoID string, timestamp float64, note string) (*Bookmark, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out Bookmark
	resp, err := req.
		SetPathParam("videoId", videoID).
		SetPathParam("timestamp", formatTimestamp(timestamp)).
		SetBody(map[string]string{"note": note}).
		SetResult(&out).
		Put("/videos/{videoId}/bookmarks/{timestamp}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveBookmark deletes the bookmark at a playback position; a missing one is not an error
func (c *Client) RemoveBookmark(ctx context.Context, videoID string, timestamp float64) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.
		SetPathParam("videoId", videoID).
		SetPathParam("timestamp", formatTimestamp(timestamp)).
		Delete("/videos/{videoId}/bookmarks/{timestamp}")
	return checkResponse(resp, err)
}

func formatTimestamp(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64)
}

// ListBookmarks fetches the bookmarks of a video ordered by timestamp
func (c *Client) ListBookmarks(ctx context.Context, videoID string) ([]Bookmark, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out []Bookmark
	resp, err := req.
		SetPathParam("videoId", videoID).
		SetResult(&out).
		Get("/videos/{videoId}/bookmarks")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
