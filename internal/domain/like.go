package domain

import "time"

// Like ties a post to a visitor identity. The backend enforces uniqueness on
// (post, user); a duplicate insert means "already liked", not a failure.
type Like struct {
	ID        int64
	PostID    string
	UserID    string
	Username  string
	CreatedAt time.Time
}

// Stats are the lazily fetched per-post counters.
type Stats struct {
	Likes    int
	Comments int
}
