// Package env reads typed settings from environment variables.
package env

import (
	"fmt"
	"os"
	"strconv"
)

// String returns the value of key, or def when the variable is unset.
func String(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// Bool parses key with strconv.ParseBool, returning def when unset.
func Bool(key string, def bool) (bool, error) {
	if v, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("parse %s: %w", key, err)
		}
		return b, nil
	}
	return def, nil
}
