package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/pattarapol-dev/srisawat-pos-backend/pkg/auth"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/security"
)

type fakeUsers struct {
	user *models.User
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if f.user == nil || f.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

type fakeSessions struct {
	generated int
	revoked   []string
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	f.generated++
	return "refresh-" + accessID, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	return "new-" + oldAccessID, "refresh-new", nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "srisawat-pos", ExpirationMinutes: 30}
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Name:         "สมชาย",
		Username:     "somchai",
		PasswordHash: hash,
		Role:         enums.UserRoleManager,
	}
}

func TestLogin(t *testing.T) {
	sessions := &fakeSessions{}
	svc, err := NewService(ServiceParams{
		Users:    &fakeUsers{user: testUser(t, "hunter2-long")},
		Sessions: sessions,
		JWT:      jwtConfig(),
		Now:      func() time.Time { return time.Now() },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Login(context.Background(), "  SOMCHAI ", "hunter2-long")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if result.Role != enums.UserRoleManager {
		t.Fatalf("role: %s", result.Role)
	}
	if sessions.generated != 1 {
		t.Fatalf("sessions generated: %d", sessions.generated)
	}

	claims, err := pkgauth.ParseAccessToken(jwtConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.UserRoleManager {
		t.Fatalf("claims role: %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		Users:    &fakeUsers{user: testUser(t, "hunter2-long")},
		Sessions: &fakeSessions{},
		JWT:      jwtConfig(),
	})

	_, err := svc.Login(context.Background(), "somchai", "wrong-password")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		Users:    &fakeUsers{},
		Sessions: &fakeSessions{},
		JWT:      jwtConfig(),
	})

	_, err := svc.Login(context.Background(), "nobody", "whatever-pass")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRequiresClaims(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		Users:    &fakeUsers{},
		Sessions: &fakeSessions{},
		JWT:      jwtConfig(),
	})

	_, err := svc.Refresh(context.Background(), "access-id", "refresh-token")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized without claims, got %v", err)
	}

	ctx := ContextWithClaims(context.Background(), &pkgauth.AccessTokenClaims{
		UserID: uuid.New(),
		Name:   "สมชาย",
		Role:   enums.UserRoleCashier,
	})
	result, err := svc.Refresh(ctx, "access-id", "refresh-token")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken != "refresh-new" {
		t.Fatal("expected rotated pair")
	}
}

func TestLogout(t *testing.T) {
	sessions := &fakeSessions{}
	svc, _ := NewService(ServiceParams{
		Users:    &fakeUsers{},
		Sessions: sessions,
		JWT:      jwtConfig(),
	})

	if err := svc.Logout(context.Background(), "some-access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "some-access-id" {
		t.Fatalf("revoked: %v", sessions.revoked)
	}
}
