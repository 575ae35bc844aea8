package feed

import (
	"regexp"
	"strings"
	"time"

	"github.com/satyapal28/archive-server/internal/domain"
)

var driveIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`drive\.google\.com/file/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`drive\.google\.com/open\?id=([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`drive\.google\.com/uc\?export=download&id=([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`drive\.google\.com/.*[?&]id=([a-zA-Z0-9-_]+)`),
}

// ConvertDriveURL turns a Google Drive share link into an embeddable preview
// URL. Non-Drive URLs pass through unchanged; unrecognized Drive links do too.
func ConvertDriveURL(url string) string {
	if !strings.Contains(url, "drive.google.com") {
		return url
	}
	for _, pat := range driveIDPatterns {
		if m := pat.FindStringSubmatch(url); m != nil {
			return "https://drive.google.com/file/d/" + m[1] + "/preview"
		}
	}
	return url
}

// Normalize prepares a fetched post for the store: embeddable video URLs and
// a display date derived from the timestamp. The derived string is for
// presentation only; ordering always goes through SortKey.
func Normalize(p domain.Post) domain.Post {
	if len(p.Videos) > 0 {
		videos := make([]string, len(p.Videos))
		for i, v := range p.Videos {
			videos[i] = ConvertDriveURL(v)
		}
		p.Videos = videos
	}
	if p.HasTimestamp() {
		p.Date = DisplayDate(p.Timestamp)
	}
	return p
}

// DisplayDate formats a timestamp the way the archive presents it.
func DisplayDate(t time.Time) string {
	return t.Format("02 Jan 2006, 3:04:05 pm")
}
