package ports

import (
	"context"
	"time"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// LoginInput carries the credentials and request metadata for a login attempt.
type LoginInput struct {
	EmployeeID string
	Password   string
	IP         string
	UserAgent  string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// CreateUserInput carries the fields an admin supplies for a new account.
type CreateUserInput struct {
	EmployeeID string
	Name       string
	Password   string
	Department string
	Role       string
}

// AuthService defines authentication and user administration use cases.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// Logout revokes the raw token for its remaining lifetime.
	Logout(ctx context.Context, rawToken string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// UpdateUser applies only allow-listed fields; unknown fields are rejected.
	UpdateUser(ctx context.Context, userID string, fields map[string]any) (*domain.User, error)
	ResetPassword(ctx context.Context, userID, newPassword string) error
	// DeleteUser refuses to remove admin accounts.
	DeleteUser(ctx context.Context, userID string) error
}
