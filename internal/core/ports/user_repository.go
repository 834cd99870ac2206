package ports

import (
	"context"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies the given bson field set; callers must have already
	// filtered it through the allow-list.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

// AuditRepository records login activity. Records are append-only.
type AuditRepository interface {
	Insert(ctx context.Context, activity *domain.LoginActivity) error
	EnsureIndexes(ctx context.Context) error
}
