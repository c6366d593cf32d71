package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pattarapol-dev/srisawat-pos-backend/internal/users"
	pkgauth "github.com/pattarapol-dev/srisawat-pos-backend/pkg/auth"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubUsersService struct{}

func (stubUsersService) Create(context.Context, users.CreateUserInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUsersService) Update(context.Context, uuid.UUID, users.UpdateUserInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUsersService) ChangePassword(context.Context, uuid.UUID, string, string) error {
	return nil
}

func (stubUsersService) Get(context.Context, uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUsersService) List(context.Context) ([]users.UserDTO, error) {
	return nil, nil
}

func (stubUsersService) Delete(context.Context, uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "srisawat-test",
			ExpirationMinutes: 60,
		},
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:         testConfig(),
		Logger:         logger.New(logger.Options{ServiceName: "test"}),
		SessionChecker: stubSessionChecker{},
		Users:          stubUsersService{},
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Name:   "Test Operator",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/api/v1/me", "/api/v1/catalog/products", "/api/v1/transactions"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestMeReturnsClaims(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleCashier))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserManagementRequiresManager(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleCashier))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cashier: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleManager))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardRequiresCEO(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleManager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("manager: expected 403, got %d", rec.Code)
	}
}
