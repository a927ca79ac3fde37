package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

var envKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseEnv parses KEY=VALUE entries. Later entries win.
func ParseEnv(entries []string) (map[string]string, error) {
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !envKeyRegex.MatchString(key) {
			return nil, &ValidationError{
				Field:   "env",
				Message: fmt.Sprintf("%q is not a KEY=VALUE pair", entry),
			}
		}
		out[key] = value
	}
	return out, nil
}

// ReadEnvFiles reads dotenv files without touching the process environment.
// Later files win.
func ReadEnvFiles(paths ...string) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range paths {
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}
		values, err := godotenv.Read(expanded)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", p, err)
		}
		for k, v := range values {
			out[k] = v
		}
	}
	return out, nil
}

// MergeEnv layers env maps; later maps win.
func MergeEnv(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
