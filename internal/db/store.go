package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound marks lookups against rows that do not exist. Callers branch
// on it with errors.Is.
var ErrNotFound = errors.New("not found")

// Store is the relational content store: users, posts, comments, likes.
type Store struct {
	pool *pgxpool.Pool
	caps Capabilities
}

func NewStore(pool *pgxpool.Pool, caps Capabilities) *Store {
	return &Store{pool: pool, caps: caps}
}
