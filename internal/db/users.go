package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spacesedan/safegram/internal/models"
)

// GetUserByEmail looks up a user, or returns ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx, `
        SELECT id, name, email, username, COALESCE(image, '')
        FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.Image)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
