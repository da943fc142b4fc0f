package db

import (
	"context"
	"fmt"
)

func (s *Store) LikePost(ctx context.Context, postID, userID string) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO likes (post_id, user_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}
	return nil
}

func (s *Store) UnlikePost(ctx context.Context, postID, userID string) error {
	_, err := s.pool.Exec(ctx, `
        DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	return nil
}
