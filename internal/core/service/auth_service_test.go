package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lodgeworks/inventory-ledger/internal/auth"
	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
)

func authFixture(t *testing.T) (*AuthService, *auth.TokenManager) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Username: "mgr", PasswordHash: hash, DisplayName: "Manager", Role: domain.RoleManager, Active: true},
		2: {ID: 2, Username: "gone", PasswordHash: hash, Role: domain.RoleStaff, Active: false},
	}}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, testLogger()), tokens
}

func TestLogin_Success(t *testing.T) {
	svc, tokens := authFixture(t)

	token, user, err := svc.Login(context.Background(), "mgr", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("unexpected user: %+v", user)
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != 1 || claims.Role != "manager" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := authFixture(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "mgr", "nope"},
		{"unknown user", "ghost", "s3cret"},
		{"inactive user", "gone", "s3cret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.username, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}
