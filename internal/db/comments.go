package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spacesedan/safegram/internal/models"
)

// commentInsertQuery builds the insert statement for the current schema.
// The second return reports whether the moderation arguments (warning flag,
// notes) are part of the statement.
func commentInsertQuery(caps Capabilities) (string, bool) {
	if caps.supportsModeration() {
		return `
        INSERT INTO comments (id, content, post_id, user_id, created_at, updated_at, has_warning_flag, moderation_notes)
        VALUES ($1, $2, $3, $4, NOW(), NOW(), $5, NULLIF($6, ''))`, true
	}
	return `
        INSERT INTO comments (id, content, post_id, user_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())`, false
}

// InsertComment writes an accepted comment. On older schemas without the
// moderation columns the annotation is dropped rather than failing the write.
func (s *Store) InsertComment(ctx context.Context, postID, content, userID string, warning bool, notes string) (string, error) {
	id := uuid.NewString()

	query, annotated := commentInsertQuery(s.caps)
	args := []any{id, content, postID, userID}
	if annotated {
		args = append(args, warning, notes)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("failed to insert comment: %w", err)
	}

	return id, nil
}

// GetRecentComments returns the bodies of the most recent comments on a
// post, newest first.
func (s *Store) GetRecentComments(ctx context.Context, postID string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT content FROM comments
        WHERE post_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent comments: %w", err)
	}
	defer rows.Close()

	var comments []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, content)
	}

	return comments, rows.Err()
}

// GetComments lists comments on a post with their authors, newest first.
// limit <= 0 means no limit. Moderation annotations are included when the
// schema carries them and read as zero values otherwise.
func (s *Store) GetComments(ctx context.Context, postID string, limit int) ([]models.Comment, error) {
	moderationCols := `, false, ''`
	if s.caps.supportsModeration() {
		moderationCols = `, COALESCE(c.has_warning_flag, false), COALESCE(c.moderation_notes, '')`
	}

	query := fmt.Sprintf(`
        SELECT c.id, c.post_id, c.content, c.created_at,
               u.id, u.name, u.email, COALESCE(u.image, ''), u.username%s
        FROM comments c
        JOIN users u ON c.user_id = u.id
        WHERE c.post_id = $1
        ORDER BY c.created_at DESC`, moderationCols)

	args := []any{postID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.Content, &comment.CreatedAt,
			&comment.User.ID, &comment.User.Name, &comment.User.Email, &comment.User.Image, &comment.User.Username,
			&comment.HasWarningFlag, &comment.ModerationNotes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}
