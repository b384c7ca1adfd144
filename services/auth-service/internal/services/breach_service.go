package services

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// breachService checks passwords against a k-anonymity range API.
// Only the first five hex characters of the SHA-1 hash leave the process.
type breachService struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewBreachService creates a breach checker for the range endpoint at baseURL,
// e.g. https://api.pwnedpasswords.com/range/
func NewBreachService(baseURL string, logger *zap.Logger) *breachService {
	return &breachService{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(5 * time.Second).
			SetHeader("Add-Padding", "true").
			SetHeader("User-Agent", "aura-academy-auth"),
		logger: logger,
	}
}

// CheckPassword reports how often the password appears in known breaches.
// Lookup failures yield an unchecked, not-breached result.
func (s *breachService) CheckPassword(ctx context.Context, password string) *models.CheckPasswordResponse {
	sum := sha1.Sum([]byte(password))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := hash[:5], hash[5:]

	resp, err := s.http.R().SetContext(ctx).Get("/" + prefix)
	if err != nil {
		s.logger.Warn("breach check request failed", zap.Error(err))
		return &models.CheckPasswordResponse{}
	}
	if resp.IsError() {
		s.logger.Warn("breach check returned an error", zap.Int("status", resp.StatusCode()))
		return &models.CheckPasswordResponse{}
	}

	count, err := findSuffix(resp.String(), suffix)
	if err != nil {
		s.logger.Warn("breach check response is malformed", zap.Error(err))
		return &models.CheckPasswordResponse{}
	}
	return &models.CheckPasswordResponse{Breached: count > 0, Count: count, Checked: true}
}

// findSuffix scans "SUFFIX:COUNT" lines. Padding entries carry a count of 0.
func findSuffix(body, suffix string) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		candidate, rawCount, ok := strings.Cut(line, ":")
		if !ok {
			return 0, fmt.Errorf("unexpected line %q", line)
		}
		if !strings.EqualFold(candidate, suffix) {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(rawCount))
		if err != nil {
			return 0, fmt.Errorf("invalid count %q: %w", rawCount, err)
		}
		return count, nil
	}
	return 0, scanner.Err()
}
