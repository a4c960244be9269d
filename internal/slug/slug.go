// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"context"
	"fmt"
	"regexp"

	gosimple "github.com/gosimple/slug"
)

// Fallback is used when a title has no sluggable characters.
const Fallback = "project"

// MaxAttempts bounds the suffix search in Unique.
const MaxAttempts = 10000

var shape = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// Make lowercases title, transliterates it to ASCII and collapses everything
// else into single hyphens.
func Make(title string) string {
	s := gosimple.Make(title)
	if s == "" {
		return Fallback
	}
	return s
}

// Valid reports whether s already has slug shape.
func Valid(s string) bool {
	return len(s) <= 220 && shape.MatchString(s)
}

// ExistsFunc reports whether a candidate slug is taken by another record.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns base if it is free, otherwise the first of base-1, base-2, …
// that exists reports as free.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for n := 1; n <= MaxAttempts; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, MaxAttempts)
}
