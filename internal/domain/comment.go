package domain

import "time"

// MaxCommentLength is enforced before any backend call.
const MaxCommentLength = 1000

type Comment struct {
	ID        int64
	PostID    string
	Username  string
	Message   string
	CreatedAt time.Time
}
