package session

import (
	"errors"
	"testing"

	"github.com/mwantia/assetdesk/data"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticGate(t *testing.T) {
	if !StaticGate(true).Authorized(t.Context()) {
		t.Error("Expected open gate")
	}
	if StaticGate(false).Authorized(t.Context()) {
		t.Error("Expected closed gate")
	}
}

func TestCredentialGate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword failed: %v", err)
	}

	g := NewCredentialGate([]User{{Email: "Admin@Example.com", Name: "Admin", PasswordHash: string(hash)}}, nil)
	ctx := t.Context()

	if g.Authorized(ctx) {
		t.Fatal("Expected gate closed before login")
	}

	if _, err := g.Login("admin@example.com", "wrong"); !errors.Is(err, data.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, err := g.Login("nobody@example.com", "secret"); !errors.Is(err, data.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for unknown user, got %v", err)
	}
	if g.Authorized(ctx) {
		t.Fatal("Expected gate closed after failed logins")
	}

	user, err := g.Login(" ADMIN@example.com ", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Name != "Admin" || !g.Authorized(ctx) {
		t.Error("Expected gate open after login")
	}
	if current, ok := g.Current(); !ok || current.Email != "Admin@Example.com" {
		t.Errorf("Unexpected current user: %+v", current)
	}

	g.Logout()
	if g.Authorized(ctx) {
		t.Error("Expected gate closed after logout")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")); err != nil {
		t.Errorf("Hash does not verify: %v", err)
	}
}
