package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/pattarapol-dev/srisawat-pos-backend/pkg/auth"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/auth/session"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/security"
)

// sessionManager is the slice of session.Manager login needs.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// userFinder resolves staff accounts; internal/users provides it.
type userFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Refresh(ctx context.Context, accessID, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

type LoginResult struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	UserID       string         `json:"user_id"`
	Name         string         `json:"name"`
	Role         enums.UserRole `json:"role"`
}

type ServiceParams struct {
	Users    userFinder
	Sessions sessionManager
	JWT      config.JWTConfig
	Now      func() time.Time
}

type service struct {
	users    userFinder
	sessions sessionManager
	jwt      config.JWTConfig
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		users:    params.Users,
		sessions: params.Sessions,
		jwt:      params.JWT,
		now:      params.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	accessID := session.NewAccessID()
	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: generate")
	}

	return s.mint(user, accessID, refresh)
}

func (s *service) Refresh(ctx context.Context, accessID, refreshToken string) (*LoginResult, error) {
	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, accessID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: rotate")
	}

	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing access claims")
	}
	user := &models.User{
		ID:   claims.UserID,
		Name: claims.Name,
		Role: claims.Role,
	}
	return s.mint(user, newAccessID, newRefresh)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: revoke")
	}
	return nil
}

func (s *service) mint(user *models.User, accessID, refresh string) (*LoginResult, error) {
	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &LoginResult{
		AccessToken:  token,
		RefreshToken: refresh,
		UserID:       user.ID.String(),
		Name:         user.Name,
		Role:         user.Role,
	}, nil
}
