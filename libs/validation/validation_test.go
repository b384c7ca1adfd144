package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type resetRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Rating          int    `json:"rating" validate:"gte=1,lte=5"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name          string
		input         resetRequest
		expectedError string
	}{
		{
			name:  "valid",
			input: resetRequest{Email: "a@b.co", Password: "longenough", PasswordConfirm: "longenough", Rating: 5},
		},
		{
			name:          "missing email",
			input:         resetRequest{Password: "longenough", PasswordConfirm: "longenough", Rating: 1},
			expectedError: "email is required",
		},
		{
			name:          "short password",
			input:         resetRequest{Email: "a@b.co", Password: "short", PasswordConfirm: "short", Rating: 1},
			expectedError: "password must be at least 8",
		},
		{
			name:          "mismatched confirmation",
			input:         resetRequest{Email: "a@b.co", Password: "longenough", PasswordConfirm: "different1", Rating: 1},
			expectedError: "passwordConfirm must match password",
		},
		{
			name:          "rating out of range",
			input:         resetRequest{Email: "a@b.co", Password: "longenough", PasswordConfirm: "longenough", Rating: 6},
			expectedError: "rating must be less than or equal to 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expectedError)
		})
	}
}
