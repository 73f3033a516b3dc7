// Package repo holds the pieces shared by the domain repositories.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Escape quotes LIKE wildcards so user text matches literally with ESCAPE '\'.
func Escape(term string) string {
	out := make([]rune, 0, len(term))
	for _, r := range term {
		switch r {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// ContainsPattern builds a %term% pattern for case-insensitive substring
// filters on lower(column).
func ContainsPattern(term string) string {
	return "%" + Escape(lower(term)) + "%"
}
