package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/user"
	"github.com/google/uuid"
)

// maxNameLen caps the display name in characters.
const maxNameLen = 100

// AuthService handles authentication business logic.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new user account. The password is irreversibly
// hashed before persistence and the role defaults to the
// least-privileged role when unspecified.
func (s *AuthService) Register(_ context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("Invalid email format")
	}

	if err := s.hasher.Validate(password); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, apperr.Validation("Name is too long")
	}

	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("Invalid role")
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("User with this email already exists")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, apperr.Persistence("Failed to create user")
	}

	return user, nil
}

// Login authenticates a user and returns the public profile plus a
// token pair. The active-flag check runs strictly before the password
// comparison, so a deactivated user never learns whether the password
// was also wrong.
func (s *AuthService) Login(_ context.Context, email, password string) (domain.Profile, *domain.TokenPair, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.Profile{}, nil, apperr.Unauthenticated("Invalid credentials")
		}
		return domain.Profile{}, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return domain.Profile{}, nil, apperr.Unauthenticated("Account is deactivated")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.Profile{}, nil, apperr.Unauthenticated("Invalid credentials")
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return domain.Profile{}, nil, err
	}
	return user.Profile(), tokens, nil
}

// RefreshTokens generates a new token pair from a valid refresh token.
func (s *AuthService) RefreshTokens(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid or expired refresh token")
	}

	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.Unauthenticated("Invalid credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated("Account is deactivated")
	}

	return s.generateTokenPair(user)
}

// ValidateToken validates an access token and returns the actor it
// identifies.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// GetUser retrieves a user's public profile by ID.
func (s *AuthService) GetUser(_ context.Context, userID string) (domain.Profile, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.Profile{}, apperr.NotFound("User not found")
		}
		return domain.Profile{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user.Profile(), nil
}

// ListUsers returns the profiles of all active users.
func (s *AuthService) ListUsers(_ context.Context) ([]domain.Profile, error) {
	return s.repo.FindAllActive()
}

// generateTokenPair generates both access and refresh tokens.
func (s *AuthService) generateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}
