package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when nothing is configured.
	DefaultLimit = 20
	// MaxLimit caps how many rows any listing can request.
	MaxLimit = 100
)

// Limits carries the configured page size bounds.
type Limits struct {
	Default int
	Max     int
}

// Ceiling is the largest page a listing may request: the configured
// maximum, or MaxLimit when none is set.
func (l Limits) Ceiling() int {
	if l.Max <= 0 {
		return MaxLimit
	}
	return l.Max
}

// Normalize returns the requested limit bounded by the configured maximum,
// or the default when nothing (or something non-positive) was requested.
func (l Limits) Normalize(requested int) int {
	def, max := l.Default, l.Ceiling()
	if def <= 0 || def > max {
		def = min(DefaultLimit, max)
	}
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}

// WithBuffer returns Normalize plus one to detect the next page.
func (l Limits) WithBuffer(requested int) int {
	return l.Normalize(requested) + 1
}

// Params holds cursor pagination inputs from controllers.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the keyset position: the sort timestamp and the row id.
type Cursor struct {
	At time.Time
	ID uuid.UUID
}

// EncodeCursor builds an opaque cursor string.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.At.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a cursor; a blank value yields nil.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	at, rawID, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{At: t, ID: id}, nil
}
