// Package env reads process environment variables with fallbacks, for the
// few knobs consulted before the typed config is loaded.
package env

import "os"

// Get returns the environment variable's value, or fallback when unset or
// empty.
func Get(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
