package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	userDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/user"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/validation"
)

// SignupRequest registers a tourist or guide account. Role "user" is
// accepted as tourist; an empty role defaults to tourist.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=tourist guide user"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionDTO is returned after a successful login.
type SessionDTO struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Principal access.Principal `json:"principal"`
}

// UserDTO is the response representation of an account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthService registers accounts and issues sessions.
type AuthService struct {
	users    userDomain.UserRepository
	guides   guideDomain.GuideRepository
	jwt      *auth.JWTManager
	sessions SessionStore
	cache    DirectoryCache
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService. cache may be nil.
func NewAuthService(
	users userDomain.UserRepository,
	guides guideDomain.GuideRepository,
	jwt *auth.JWTManager,
	sessions SessionStore,
	cache DirectoryCache,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		guides:   guides,
		jwt:      jwt,
		sessions: sessions,
		cache:    cache,
		logger:   logger,
	}
}

// Signup creates an account. A guide account also gets a pending guide
// profile with the same id; if that fails the account is removed again.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*UserDTO, error) {
	role := access.RoleTourist
	if req.Role != "" {
		r, err := access.ParseRole(req.Role)
		if err != nil || r == access.RoleAdmin {
			return nil, domain.NewFieldValidationError(map[string]string{"role": "must be tourist or guide"})
		}
		role = r
	}

	v := validation.New()
	v.MinLength("name", req.Name, validation.MinNameLen)
	v.Email("email", req.Email)
	v.MinLength("password", req.Password, validation.MinPasswordLen)
	if err := v.Err(); err != nil {
		return nil, err
	}

	return s.createAccount(ctx, req.Name, req.Email, req.Password, role, guideDomain.StatusPending)
}

// createAccount saves the user and, for guides, the matching profile.
func (s *AuthService) createAccount(ctx context.Context, name, email, password string, role access.Role, guideStatus guideDomain.GuideStatus) (*UserDTO, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := userDomain.NewUser(name, email, hash, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	if role == access.RoleGuide {
		if err := s.createGuideProfile(ctx, u, guideStatus); err != nil {
			if derr := s.users.Delete(ctx, u.ID()); derr != nil {
				s.logger.Error("failed to remove account after guide profile error",
					zap.String("user_id", u.ID().String()),
					zap.Error(derr),
				)
				return nil, errors.Join(err, derr)
			}
			return nil, err
		}
		invalidateDirectory(ctx, s.cache, s.logger)
	}

	s.logger.Info("account created",
		zap.String("user_id", u.ID().String()),
		zap.String("role", string(role)),
	)
	result := toUserDTO(u)
	return &result, nil
}

func (s *AuthService) createGuideProfile(ctx context.Context, u *userDomain.User, status guideDomain.GuideStatus) error {
	g, err := guideDomain.NewGuide(u.ID(), u.Name(), u.Email(), status)
	if err != nil {
		return err
	}
	if err := s.guides.Save(ctx, g); err != nil {
		return fmt.Errorf("failed to create guide profile: %w", err)
	}
	return nil
}

// Login verifies credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*SessionDTO, error) {
	invalid := domain.NewUnauthorizedError("invalid credentials")

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if !u.IsActive() || !auth.CheckPassword(u.PasswordHash(), req.Password) {
		return nil, invalid
	}

	token, claims, err := s.jwt.Generate(u.Principal())
	if err != nil {
		return nil, err
	}
	return &SessionDTO{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Principal: u.Principal(),
	}, nil
}

// Logout revokes the session token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return domain.NewUnauthorizedError("no active session")
	}
	until := time.Now().Add(s.jwt.TTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.sessions.Revoke(ctx, claims.ID, until)
}

// RevokeAccount ends every session already issued to id.
func (s *AuthService) RevokeAccount(ctx context.Context, id uuid.UUID) error {
	return s.sessions.Revoke(ctx, auth.SubjectRevocationKey(id.String()), time.Now().Add(s.jwt.TTL()))
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, p *access.Principal) (*UserDTO, error) {
	if p == nil {
		return nil, domain.NewUnauthorizedError("sign in required")
	}
	u, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// SeedAdmin creates the configured admin account unless it already exists.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		s.logger.Info("admin seed skipped, no credentials configured")
		return nil
	}
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !domain.IsNotFound(err) {
		return err
	}
	if name == "" {
		name = "Administrator"
	}

	_, err = s.createAccount(ctx, name, email, password, access.RoleAdmin, "")
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return nil
	}
	return err
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Role:      string(u.Role()),
		Status:    string(u.Status()),
		CreatedAt: u.CreatedAt(),
	}
}
