package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spacesedan/safegram/internal/db"
	"github.com/spacesedan/safegram/internal/models"
)

// SessionStore maps opaque session tokens to account emails.
type SessionStore interface {
	SetSession(ctx context.Context, token, email string) error
	GetSessionEmail(ctx context.Context, token string) (string, bool)
	DeleteSession(ctx context.Context, token string) error
}

// UserReader resolves accounts from the content store.
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type Provider struct {
	sessions SessionStore
	users    UserReader
}

func NewProvider(sessions SessionStore, users UserReader) *Provider {
	return &Provider{sessions: sessions, users: users}
}

// GetCurrentUser resolves a session token to a user. A missing or expired
// session is "not signed in", not an error.
func (p *Provider) GetCurrentUser(ctx context.Context, token string) (models.User, bool) {
	if token == "" {
		return models.User{}, false
	}

	email, ok := p.sessions.GetSessionEmail(ctx, token)
	if !ok {
		return models.User{}, false
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			slog.Error("[Auth] Failed to load user for session",
				slog.String("error", err.Error()))
		}
		return models.User{}, false
	}

	return user, true
}

// SignIn issues a session token for a known account email.
func (p *Provider) SignIn(ctx context.Context, email string) (string, error) {
	if _, err := p.users.GetUserByEmail(ctx, email); err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := p.sessions.SetSession(ctx, token, email); err != nil {
		return "", err
	}
	return token, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := p.sessions.DeleteSession(ctx, token); err != nil {
		slog.Warn("[Auth] Failed to delete session",
			slog.String("error", err.Error()))
	}
}
