package domain

import "time"

// Activity is a best-effort audit row for visitor actions.
type Activity struct {
	ID           int64
	UserID       string
	Username     string
	Action       string
	PostID       string
	SessionStart time.Time
	CreatedAt    time.Time
}
