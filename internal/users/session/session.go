package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session ties an opaque user token to the user and their Firebase ID token.
type Session struct {
	UserID     string `json:"user_id"`
	UserToken  string `json:"user_token"`
	Credential string `json:"firebase_token"`
}

// Store keeps sessions until they are removed. Sessions do not expire.
type Store interface {
	// Add creates a session under a freshly generated token.
	Add(ctx context.Context, userID, credential string) (*Session, error)
	// Get returns ErrNotFound for an unknown token.
	Get(ctx context.Context, userToken string) (*Session, error)
	// Remove is a no-op for an unknown token.
	Remove(ctx context.Context, userToken string) error
	Reset(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// newToken returns 32 random hex characters.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
