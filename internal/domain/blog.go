package domain

import "time"

// Blog represents a published post. Comments, likes, and shares hang off it.
type Blog struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogDetail is a blog post enriched with its interaction counts.
type BlogDetail struct {
	Blog
	CommentCount int `json:"comment_count"`
	LikeCount    int `json:"like_count"`
	ShareCount   int `json:"share_count"`
}

// Comment represents a user comment on a blog post.
type Comment struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blog_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Like records that a user liked a blog post. Append-only; repeated likes by
// the same user are recorded as separate rows.
type Like struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blog_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Share records that a user shared a blog post.
type Share struct {
	ID       string    `json:"id"`
	BlogID   string    `json:"blog_id"`
	UserID   string    `json:"user_id"`
	SharedAt time.Time `json:"shared_at"`
}
