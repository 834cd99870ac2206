package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/ports"
)

const minPasswordLength = 6

// TokenRevoker abstracts the logout denylist (Redis).
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService implements login, logout, password changes, and user admin.
type AuthService struct {
	users     ports.UserRepository
	audit     ports.AuditRepository
	revoker   TokenRevoker
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	audit ports.AuditRepository,
	revoker TokenRevoker,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &AuthService{
		users:     users,
		audit:     audit,
		revoker:   revoker,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Login authenticates an employee and, on success, mints a token and writes a
// login-activity record. Failed attempts leave no audit trace.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	if input.EmployeeID == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmployeeID(ctx, domain.NormalizeEmployeeID(input.EmployeeID))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	expiresAt := time.Now().UTC().Add(s.tokenTTL)
	token, err := s.generateToken(user, expiresAt)
	if err != nil {
		return nil, err
	}

	activity := &domain.LoginActivity{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Department: user.Department,
		IP:         input.IP,
		UserAgent:  input.UserAgent,
		LoginAt:    time.Now().UTC(),
	}
	if err := s.audit.Insert(ctx, activity); err != nil {
		s.log.Warn().Err(err).Str("employee_id", user.EmployeeID).Msg("login audit write failed")
	}

	s.log.Info().Str("employee_id", user.EmployeeID).Str("department", user.Department).Msg("login")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the token's id for its remaining lifetime. Already-expired
// tokens need no revocation and succeed silently.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(rawToken, &claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return domain.ErrTokenInvalid
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return domain.ErrTokenInvalid
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidCredentials, minPasswordLength)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]any{"password_hash": string(hash)})
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.EmployeeID == "" || input.Name == "" || len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: employee id, name and a password of %d+ characters are required",
			domain.ErrInvalidCredentials, minPasswordLength)
	}
	if input.Role != domain.RoleAdmin && input.Role != domain.RoleOperator {
		return nil, fmt.Errorf("%w: role must be admin or operator", domain.ErrInvalidCredentials)
	}
	if input.Role == domain.RoleOperator {
		if _, err := domain.ParseDepartment(input.Department); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		EmployeeID:   domain.NormalizeEmployeeID(input.EmployeeID),
		Name:         input.Name,
		PasswordHash: string(hash),
		Department:   input.Department,
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.users.Create(ctx, user)
}

// UpdateUser applies only allow-listed fields, type-checked. A payload naming
// any other field, or sending the wrong value type, is rejected outright
// rather than silently filtered.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, fields map[string]any) (*domain.User, error) {
	update, err := domain.ValidateUserUpdate(fields)
	if err != nil {
		return nil, err
	}
	if dept, ok := update["department"].(string); ok && dept != "" {
		if _, err := domain.ParseDepartment(dept); err != nil {
			return nil, err
		}
	}
	if role, ok := update["role"].(string); ok {
		if role != domain.RoleAdmin && role != domain.RoleOperator {
			return nil, fmt.Errorf("%w: role must be admin or operator", domain.ErrFieldNotAllowed)
		}
	}
	if len(update) == 0 {
		return s.users.FindByID(ctx, userID)
	}

	if err := s.users.Update(ctx, userID, update); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidCredentials, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]any{"password_hash": string(hash)})
}

// DeleteUser removes an account. Admin accounts are deactivated through
// UpdateUser instead; hard deletion of them is refused.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin {
		return domain.ErrAccountProtected
	}
	return s.users.Delete(ctx, userID)
}

// generateToken mints an HS256 token carrying only the user id; role and
// department are re-fetched from the database on every request, so changing
// them takes effect mid-session.
func (s *AuthService) generateToken(user *domain.User, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		ID:        newTokenID(),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// newTokenID returns a random token identifier for the revocation denylist.
func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
