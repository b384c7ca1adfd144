package models

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	FullName        string `json:"fullName" validate:"required,max=100"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginRequest represents a sign-in request
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
}

// ChangePasswordRequest represents a password change by a signed-in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// PasswordResetRequest asks for a reset link
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest sets a new password with a reset code
type PasswordResetConfirmRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// PromoteAdminRequest redeems a setup token
type PromoteAdminRequest struct {
	Token string `json:"token" validate:"required"`
}

// CreateSetupTokenRequest sets the lifetime of a new setup token
type CreateSetupTokenRequest struct {
	ValidHours int `json:"validHours" validate:"omitempty,gte=1,lte=168"`
}

// CheckPasswordRequest asks whether a password appears in known breaches
type CheckPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// CheckPasswordResponse is the breach check result. Checked is false when the
// breach corpus could not be reached; Breached is then false as well.
type CheckPasswordResponse struct {
	Breached bool `json:"breached"`
	Count    int  `json:"count"`
	Checked  bool `json:"checked"`
}

// SubscribeRequest adds an address to the newsletter
type SubscribeRequest struct {
	Email  string `json:"email" validate:"required,email,max=255"`
	Source string `json:"source" validate:"max=50"`
}

// SubscribeResponse reports whether the address was new
type SubscribeResponse struct {
	Subscribed        bool `json:"subscribed"`
	AlreadySubscribed bool `json:"alreadySubscribed"`
}
