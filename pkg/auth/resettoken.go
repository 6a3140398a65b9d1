package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrResetTokenInvalid is returned when a reset token is unknown, expired or
// already consumed.
var ErrResetTokenInvalid = errors.New("reset token is invalid or expired")

type resetEntry struct {
	username  string
	expiresAt time.Time
}

// ResetTokenVault issues one-time password reset tokens. Tokens expire after
// the configured TTL and are consumed on first use, so a token can never
// authorize two resets.
type ResetTokenVault struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]resetEntry
	now    func() time.Time
}

// NewResetTokenVault creates a vault with the given token lifetime.
func NewResetTokenVault(ttl time.Duration) *ResetTokenVault {
	return &ResetTokenVault{
		ttl:    ttl,
		tokens: make(map[string]resetEntry),
		now:    time.Now,
	}
}

// Issue creates a reset token for the username, invalidating any token the
// user already holds.
func (v *ResetTokenVault) Issue(username string) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	for token, entry := range v.tokens {
		if entry.username == username || !entry.expiresAt.After(v.now()) {
			delete(v.tokens, token)
		}
	}

	token := uuid.NewString()
	v.tokens[token] = resetEntry{
		username:  username,
		expiresAt: v.now().Add(v.ttl),
	}
	return token
}

// Consume validates and spends a reset token, returning the username it was
// issued for. A consumed token cannot be used again.
func (v *ResetTokenVault) Consume(token string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.tokens[token]
	if !ok {
		return "", ErrResetTokenInvalid
	}
	delete(v.tokens, token)

	if !entry.expiresAt.After(v.now()) {
		return "", ErrResetTokenInvalid
	}
	return entry.username, nil
}
