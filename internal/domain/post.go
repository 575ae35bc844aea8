package domain

import "time"

// Post is the canonical unit of the archive. Images, videos and links are
// stored as related rows in the backend but carried here as flat URL slices in
// display order.
type Post struct {
	ID        string
	Timestamp time.Time // zero when the backend row has no timestamp
	Date      string    // legacy display date, stands in only when Timestamp is zero
	Type      string
	Content   string
	Images    []string
	Videos    []string
	Links     []string
}

// HasTimestamp reports whether a real timestamp exists. Ordering and year
// filtering must use the timestamp whenever this is true; the date string is a
// display-only fallback.
func (p *Post) HasTimestamp() bool {
	return !p.Timestamp.IsZero()
}

// SortKey returns the instant the post is ordered by: the timestamp, or the
// parsed legacy date string when no timestamp exists.
func (p *Post) SortKey() time.Time {
	if p.HasTimestamp() {
		return p.Timestamp
	}
	for _, layout := range dateFallbackLayouts {
		if t, err := time.Parse(layout, p.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Year returns the calendar year used by the year filter, or 0 when unknown.
func (p *Post) Year() int {
	if k := p.SortKey(); !k.IsZero() {
		return k.Year()
	}
	return 0
}

var dateFallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// PostDraft carries admin-supplied fields for create and edit. Media slices
// replace the stored arrays wholesale.
type PostDraft struct {
	Timestamp time.Time
	Type      string
	Content   string
	Images    []string
	Videos    []string
	Links     []string
}
