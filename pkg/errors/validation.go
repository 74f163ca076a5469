package errors

import (
	"strings"
	"unicode"
)

// MaxKeyLength bounds offset keys and entry IDs.
const MaxKeyLength = 128

// ValidateKey validates an offset key (a year group key or an entry ID).
// Keys end up in file names, SQL rows, Redis hash fields and URLs, so the
// rules are conservative:
//   - No empty keys
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of MaxKeyLength bytes
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}
	if len(key) > MaxKeyLength {
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", MaxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidKey, "key contains invalid characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "key contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateCanvasWidth validates a requested canvas width.
func ValidateCanvasWidth(w float64) error {
	if !(w > 0) || w > 100000 {
		return New(ErrCodeInvalidCanvas, "canvas width must be between 0 and 100000, got %v", w)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https). Empty URLs are
// allowed because cover photos are optional.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") && !strings.HasPrefix(rawURL, "/") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme or be site-relative")
	}
	return nil
}
