package models

import "time"

// Role is the access level of an account
type Role int

// Role values; they match the role claim of access tokens
const (
	RoleStudent Role = 1
	RoleAdmin   Role = 2
)

// User represents an account
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`    // Never serialize password hash
	Role         Role      `json:"role"` // 1=Student, 2=Admin
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfileResponse is the account view returned by /me
type ProfileResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToProfile converts a user to its profile view
func (u *User) ToProfile() *ProfileResponse {
	return &ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsAdmin:   u.Role == RoleAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// UserListItem is one row of the admin user list
type UserListItem struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
