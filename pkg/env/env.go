// Package env reads process environment variables with defaults. It
// covers the few lookups that happen before envconfig parses the full
// KioskConfig, such as picking the log format at logger init.
package env

import "os"

// Get looks up key in the process environment. An unset or empty
// variable yields fallback.
func Get(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
