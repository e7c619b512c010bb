package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/vmnc/esports-api/pkg/apperr"
)

// DefaultTTL is how long an admin token stays valid after login.
const DefaultTTL = 24 * time.Hour

// Admin identifies an authorized caller.
type Admin struct {
	Token     string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Gate issues and checks admin tokens. Sessions live in process memory and
// are lost on restart, so the service must run as a single instance.
type Gate struct {
	passwordHash []byte
	ttl          time.Duration
	clock        clockwork.Clock

	mu       sync.Mutex
	sessions map[string]Admin
}

// HashPassword bcrypt-hashes a plain admin password for NewGate.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// NewGate builds a gate checking logins against a bcrypt hash. A zero ttl
// means DefaultTTL and a nil clock means the real clock.
func NewGate(passwordHash []byte, ttl time.Duration, clock clockwork.Clock) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Gate{
		passwordHash: passwordHash,
		ttl:          ttl,
		clock:        clock,
		sessions:     map[string]Admin{},
	}
}

// Login checks password and issues a fresh token.
func (g *Gate) Login(password string) (Admin, error) {
	if password == "" {
		return Admin{}, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Admin{}, apperr.ErrInvalidCredentials
		}
		return Admin{}, err
	}

	now := g.clock.Now()
	admin := Admin{
		Token:     uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(g.ttl),
	}

	g.mu.Lock()
	g.sessions[admin.Token] = admin
	g.mu.Unlock()
	return admin, nil
}

// Authorize resolves token to its session. Absent, unknown and expired
// tokens are all ErrUnauthorized; expired ones are dropped on sight.
func (g *Gate) Authorize(token string) (Admin, error) {
	if token == "" {
		return Admin{}, apperr.ErrUnauthorized
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	admin, ok := g.sessions[token]
	if !ok {
		return Admin{}, apperr.ErrUnauthorized
	}
	if !g.clock.Now().Before(admin.ExpiresAt) {
		delete(g.sessions, token)
		return Admin{}, apperr.ErrUnauthorized
	}
	return admin, nil
}

// Logout invalidates token immediately. Unknown tokens are ignored.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (g *Gate) Sweep() int {
	now := g.clock.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for token, admin := range g.sessions {
		if !now.Before(admin.ExpiresAt) {
			delete(g.sessions, token)
			removed++
		}
	}
	return removed
}

// Active is the number of live sessions.
func (g *Gate) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}
