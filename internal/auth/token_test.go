package auth

import (
	"testing"
	"time"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: 7, Role: domain.RoleAdmin}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate(&domain.User{ID: 1, Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Validate(token); err == nil {
		t.Errorf("token signed with another secret validated")
	}
}

func TestValidate_Expired(t *testing.T) {
	m := NewTokenManager("secret", -time.Hour)
	token, err := m.Generate(&domain.User{ID: 1, Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := m.Validate(token); err == nil {
		t.Errorf("expired token validated")
	}
}

func TestValidate_Garbage(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	if _, err := m.Validate("not-a-token"); err == nil {
		t.Errorf("garbage token validated")
	}
}
