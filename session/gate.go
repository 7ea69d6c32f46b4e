package session

import (
	"context"
	"strings"
	"sync"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/log"
	"golang.org/x/crypto/bcrypt"
)

// Gate decides whether the current operator may see and act on the catalog.
type Gate interface {
	Authorized(ctx context.Context) bool
}

// StaticGate is always open or always closed.
type StaticGate bool

func (g StaticGate) Authorized(ctx context.Context) bool {
	return bool(g)
}

// User is an operator allowed to sign in. PasswordHash is a bcrypt hash.
type User struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"`
}

// CredentialGate opens after a successful Login and closes again on Logout.
type CredentialGate struct {
	mu      sync.RWMutex
	users   map[string]User
	current *User

	log *log.Logger
}

func NewCredentialGate(users []User, logger *log.Logger) *CredentialGate {
	if logger == nil {
		logger = log.Discard()
	}

	g := &CredentialGate{
		users: make(map[string]User, len(users)),
		log:   logger,
	}
	for _, user := range users {
		g.users[normalizeEmail(user.Email)] = user
	}

	return g
}

// Login checks the password against the stored hash. Unknown users and wrong
// passwords both return data.ErrUnauthorized.
func (g *CredentialGate) Login(email, password string) (*User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	user, exists := g.users[normalizeEmail(email)]
	if !exists {
		g.log.Warn("Rejected login for unknown user '%s'", email)
		return nil, data.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		g.log.Warn("Rejected login for '%s': %v", email, err)
		return nil, data.ErrUnauthorized
	}

	g.current = &user
	g.log.Info("Operator '%s' signed in", user.Email)

	return &user, nil
}

func (g *CredentialGate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != nil {
		g.log.Info("Operator '%s' signed out", g.current.Email)
	}
	g.current = nil
}

// Current returns the signed in operator.
func (g *CredentialGate) Current() (User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.current == nil {
		return User{}, false
	}
	return *g.current, true
}

func (g *CredentialGate) Authorized(ctx context.Context) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.current != nil
}

// HashPassword returns the bcrypt hash stored in a user entry.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
