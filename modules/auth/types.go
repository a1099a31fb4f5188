package auth

import (
	domain "github.com/example/task-manager/domain/user"
)

// RegisterRequest represents a user registration request. Role is
// optional and defaults to the least-privileged role.
type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role,omitempty"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	User domain.Profile `json:"user"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the profile and session tokens after login.
type LoginResponse struct {
	User   domain.Profile   `json:"user"`
	Tokens domain.TokenPair `json:"tokens"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	Tokens domain.TokenPair `json:"tokens"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool        `json:"valid"`
	UserID string      `json:"userId,omitempty"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"userId"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	User domain.Profile `json:"user"`
}

// ListUsersRequest represents a request for all active users.
type ListUsersRequest struct{}

// ListUsersResponse represents the active user listing.
type ListUsersResponse struct {
	Users []domain.Profile `json:"users"`
	Count int              `json:"count"`
}
