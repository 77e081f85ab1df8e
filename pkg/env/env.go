// Package env reads process environment variables with fallbacks, for the
// few knobs resolved before config loading (log format, listen port).
package env

import "os"

// Get returns the environment variable value, or fallback when it is unset
// or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
