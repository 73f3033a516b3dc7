// Package env reads GM_* variables before the typed configuration is
// loaded, e.g. for the bootstrap logger that reports config errors.
package env

import (
	"os"
	"strings"
)

// Prefix namespaces every Guia Mercado variable.
const Prefix = "GM_"

// Get returns GM_<key> trimmed, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(Prefix + key)); val != "" {
		return val
	}
	return fallback
}
