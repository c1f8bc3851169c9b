package auth

import (
	"context"
	"testing"

	"github.com/dermalink/dermalink-backend/internal/users"
	pkgAuth "github.com/dermalink/dermalink-backend/pkg/auth"
	"github.com/dermalink/dermalink-backend/pkg/config"
	"github.com/dermalink/dermalink-backend/pkg/enums"
	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTTLHours:  24,
		RefreshTTLHours: 720,
	}
}

func buildTestService(t *testing.T) (Service, *users.Service) {
	t.Helper()
	passwordCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	store := users.NewStore(passwordCfg)
	userService, err := users.NewService(store, passwordCfg)
	if err != nil {
		t.Fatalf("new user service: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Users:     userService,
		JWTConfig: testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc, userService
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := buildTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "hunter2",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Email != "alice@example.com" {
		t.Fatalf("expected normalized email in response, got %q", reg.Email)
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued together")
	}
	if resp.User == nil || resp.User.Role != enums.UserRolePatient || !resp.User.IsActive {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if resp.User.LastLoginAt.Before(resp.User.CreatedAt) {
		t.Fatal("expected last_login_at >= created_at after login")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID() != resp.User.ID.String() {
		t.Fatalf("expected sub %s, got %s", resp.User.ID, claims.UserID())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := buildTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "dup@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterRequest{Email: "DUP@example.com", Password: "pw"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := buildTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "role@example.com",
		Password: "pw",
		Role:     "superuser",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterWithDoctorRole(t *testing.T) {
	svc, userService := buildTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email:    "doc@example.com",
		Password: "pw",
		Role:     "doctor",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := userService.GetByEmail(ctx, "doc@example.com")
	if err != nil || user == nil {
		t.Fatalf("lookup: (%v, %v)", user, err)
	}
	if user.Role != enums.UserRoleDoctor {
		t.Fatalf("expected doctor role, got %s", user.Role)
	}
}

func TestLoginUniformRejection(t *testing.T) {
	svc, _ := buildTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "known@example.com", Password: "right"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	for _, req := range []LoginRequest{
		{Email: "unknown@example.com", Password: "right"},
		{Email: "known@example.com", Password: "wrong"},
	} {
		_, err := svc.Login(ctx, req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %v, got %v", req.Email, err)
		}
		if typed.Message() != invalidCredentialsMessage {
			t.Fatalf("expected uniform message, got %q", typed.Message())
		}
	}
}

func TestLoginOAuthAccountDistinctError(t *testing.T) {
	svc, userService := buildTestService(t)
	ctx := context.Background()

	if _, err := userService.Create(ctx, users.CreateUserDTO{
		Email: "oauth@example.com",
		OAuth: &users.OAuthCredentials{Provider: "google", ExternalID: "g-9"},
	}); err != nil {
		t.Fatalf("create oauth user: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "oauth@example.com", Password: "pw"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnsupportedAuth {
		t.Fatalf("expected unsupported auth method, got %v", err)
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _ := buildTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "fresh@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, LoginRequest{Email: "fresh@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("expected a full replacement pair")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed access token: %v", err)
	}
	if claims.UserID() != login.User.ID.String() {
		t.Fatal("refreshed token must keep the same subject")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := buildTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "mix@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, LoginRequest{Email: "mix@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// An access token is signed with the other secret and must not refresh.
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.AccessToken})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	svc, userService := buildTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "bye@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, LoginRequest{Email: "bye@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := userService.Delete(ctx, login.User.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after deletion, got %v", err)
	}
}
