package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spacesedan/safegram/internal/models"
)

func (s *Store) InsertPost(ctx context.Context, content, imageURL, userID string) (string, error) {
	id := uuid.NewString()

	_, err := s.pool.Exec(ctx, `
        INSERT INTO posts (id, content, image_url, user_id, created_at, updated_at)
        VALUES ($1, $2, NULLIF($3, ''), $4, NOW(), NOW())`,
		id, content, imageURL, userID)
	if err != nil {
		return "", fmt.Errorf("failed to insert post: %w", err)
	}

	return id, nil
}

// GetPostContent returns the body of a single post, or ErrNotFound.
func (s *Store) GetPostContent(ctx context.Context, postID string) (string, error) {
	var content string
	err := s.pool.QueryRow(ctx, `SELECT content FROM posts WHERE id = $1`, postID).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load post: %w", err)
	}
	return content, nil
}

// GetPosts returns the feed: newest posts first, each with author, like and
// comment counts, and its five most recent comments.
func (s *Store) GetPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT p.id, p.content, COALESCE(p.image_url, ''), p.created_at,
               u.id, u.name, u.email, COALESCE(u.image, ''), u.username,
               (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
        FROM posts p
        JOIN users u ON p.user_id = u.id
        ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(
			&post.ID, &post.Content, &post.ImageURL, &post.CreatedAt,
			&post.User.ID, &post.User.Name, &post.User.Email, &post.User.Image, &post.User.Username,
			&post.LikeCount, &post.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read post rows: %w", err)
	}

	for i := range posts {
		comments, err := s.GetComments(ctx, posts[i].ID, 5)
		if err != nil {
			return nil, err
		}
		posts[i].Comments = comments
	}

	return posts, nil
}
