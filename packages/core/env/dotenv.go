package env

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv parses a .env file into key-value pairs without touching the
// process environment.
// Supports: KEY=value, KEY="quoted value", KEY='single quoted', export KEY=v,
// # comments, ${OTHER} expansion within the file.
func LoadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("loading env file %s: %w", path, err)
	}
	return vars, nil
}

// ParseAssignments reads name=value pairs such as those given with --var.
func ParseAssignments(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, found := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected name=value", p)
		}
		result[key] = value
	}
	return result, nil
}
