package service

import (
	"context"
	"strings"
	"testing"

	"github.com/iliyamo/boardgame-depot/internal/utils"
)

func TestIssueToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	m, err := e.auth.Register(ctx, RegisterInput{Email: " Boss@Example.com ", Password: "pw", IsAdmin: true})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if m.Email != "boss@example.com" {
		t.Errorf("expected normalized email, got %q", m.Email)
	}

	res, err := e.auth.IssueToken(ctx, "BOSS@example.com", "pw")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if !res.IsAdmin {
		t.Error("expected admin flag in result")
	}
	claims, err := utils.ParseAccessToken("test-secret", res.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ManagerID != m.ID || claims.Email != m.Email {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateCredentialsErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if _, err := e.auth.Register(ctx, RegisterInput{Email: "m@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := e.auth.ValidateCredentials(ctx, "", "pw")
	assertKind(t, err, ErrBadRequest)
	_, err = e.auth.ValidateCredentials(ctx, "nobody@example.com", "pw")
	assertKind(t, err, ErrNotFound)
	_, err = e.auth.ValidateCredentials(ctx, "m@example.com", "wrong")
	assertKind(t, err, ErrUnauthorized)
}

func TestRegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := RegisterInput{Email: "m@example.com", Password: "pw"}
	if _, err := e.auth.Register(ctx, in); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := e.auth.Register(ctx, in)
	assertKind(t, err, ErrConflict)

	_, err = e.auth.Register(ctx, RegisterInput{Email: "x@example.com"})
	assertKind(t, err, ErrBadRequest)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.auth.EnsureAdmin(ctx, "root@example.com", "pw")
	if err != nil || !created {
		t.Fatalf("first EnsureAdmin: created=%v err=%v", created, err)
	}
	created, err = e.auth.EnsureAdmin(ctx, "root@example.com", "other")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin: created=%v err=%v", created, err)
	}
	// the original password still works
	if _, err := e.auth.ValidateCredentials(ctx, "root@example.com", "pw"); err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
}

func TestEnsureAdminMixedCaseEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := e.auth.EnsureAdmin(ctx, " Root@Example.COM", "pw"); err != nil {
			t.Fatalf("EnsureAdmin run %d: %v", i+1, err)
		}
	}
	m, err := e.repos.Managers.GetByEmail(ctx, "root@example.com")
	if err != nil || !m.IsAdmin {
		t.Fatalf("admin not stored normalized: %+v %v", m, err)
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Register(context.Background(), RegisterInput{
		Email: "long@example.com", Password: strings.Repeat("p", 80),
	})
	assertKind(t, err, ErrBadRequest)
	if Message(err) == "" {
		t.Error("expected a client-facing message")
	}
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m, _ := e.auth.Register(ctx, RegisterInput{Email: "m@example.com", Password: "pw", FirstName: "Grace"})

	got, err := e.auth.Profile(ctx, m.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if got.FirstName != "Grace" {
		t.Errorf("expected Grace, got %q", got.FirstName)
	}
	_, err = e.auth.Profile(ctx, "missing")
	assertKind(t, err, ErrNotFound)
}

func TestComparePasswordRejectsEmpty(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.ComparePassword("", "hash")
	assertKind(t, err, ErrBadRequest)
	_, err = e.auth.HashPassword("")
	assertKind(t, err, ErrBadRequest)
}
