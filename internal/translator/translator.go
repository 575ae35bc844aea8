package translator

import (
	"context"
	"errors"
	"unicode"
)

var (
	// ErrRateLimited means the rolling per-minute cap was hit; callers skip
	// the translation rather than waiting.
	ErrRateLimited = errors.New("translation rate limit reached")
	ErrUnavailable = errors.New("translation unavailable")
)

type Client interface {
	// Translate returns text in the target language ("hi", "en", ...). The
	// source language is auto-detected. Best-effort: bounded timeout, no
	// retries.
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ContainsDevanagari reports whether the text has Hindi-script characters,
// which is what gates the "see translation" affordance on post content.
func ContainsDevanagari(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return true
		}
	}
	return false
}
