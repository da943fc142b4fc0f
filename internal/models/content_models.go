package models

import "time"

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Image    string `json:"image,omitempty"`
}

type Post struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	User         User      `json:"user"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	Comments     []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID              string    `json:"id"`
	PostID          string    `json:"post_id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	HasWarningFlag  bool      `json:"has_warning_flag"`
	ModerationNotes string    `json:"moderation_notes,omitempty"`
	User            User      `json:"user"`
}
