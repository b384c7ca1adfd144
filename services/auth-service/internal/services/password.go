package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/aura-academy/portal/services/auth-service/internal/models"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// validateNewPassword checks a new password and its confirmation
func validateNewPassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", models.ErrValidation, MinPasswordLength)
	}
	// bcrypt ignores everything after 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes long", models.ErrValidation)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", models.ErrValidation)
	}
	return nil
}
