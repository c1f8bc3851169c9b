package users

import (
	"context"
	"testing"

	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*Service, *Store) {
	t.Helper()
	store := newTestStore()
	svc, err := NewService(store, testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestSetPasswordRotatesCredential(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserDTO{Email: "rotate@example.com", Password: "old-pass"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.SetPassword(ctx, user, "new-pass")
	if err != nil {
		t.Fatalf("set password: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated record")
	}

	got, err := svc.AuthenticateWithPassword(ctx, "rotate@example.com", "new-pass")
	if err != nil || got == nil {
		t.Fatalf("new password rejected: (%v, %v)", got, err)
	}
	old, err := svc.AuthenticateWithPassword(ctx, "rotate@example.com", "old-pass")
	if err != nil || old != nil {
		t.Fatalf("old password still accepted: (%v, %v)", old, err)
	}
}

func TestSetPasswordConvertsOAuthAccount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserDTO{
		Email: "converted@example.com",
		OAuth: &OAuthCredentials{Provider: "google", ExternalID: "g-1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetPassword(ctx, user, "local-pass"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	got, err := svc.AuthenticateWithPassword(ctx, "converted@example.com", "local-pass")
	if err != nil || got == nil {
		t.Fatalf("expected password auth after conversion, got (%v, %v)", got, err)
	}
}

func TestSetPasswordValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserDTO{Email: "v@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.SetPassword(ctx, user, "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}

	if _, err := svc.SetPassword(ctx, nil, "pw"); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for nil user")
	}
}

func TestSetPasswordFallsBackWhenStoreReportsAbsent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ghost := &User{ID: uuid.New(), Email: "ghost@example.com"}
	got, err := svc.SetPassword(ctx, ghost, "pw")
	if err != nil {
		t.Fatalf("set password: %v", err)
	}
	if got != ghost {
		t.Fatal("expected the caller's copy back when the store has no such id")
	}
}

func TestServicePassThrough(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserDTO{Email: "pass@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, _ := svc.Get(ctx, created.ID)
	byEmail, _ := svc.GetByEmail(ctx, "pass@example.com")
	if byID == nil || byEmail == nil || byID.ID != byEmail.ID {
		t.Fatal("service lookups disagree with each other")
	}

	direct, _ := store.FindByID(ctx, created.ID)
	if direct == nil || direct.ID != created.ID {
		t.Fatal("service create did not go through the store")
	}

	list, _ := svc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}

	deleted, _ := svc.Delete(ctx, created.ID)
	if !deleted {
		t.Fatal("expected delete via service to succeed")
	}
}
